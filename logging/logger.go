package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const DEFAULT_TIMESTAMP_FORMAT = "2006-01-02 15:04:05"

var levelDesc = []string{"PANC", "FATL", "ERRO", "WARN", "INFO", "DEBG", "TRAC"}

type PlainFormatter struct {
	TimestampFormat string
	LevelDesc       []string
}

func (f *PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf strings.Builder

	level := int(entry.Level)
	if level < len(f.LevelDesc) {
		buf.WriteString(f.LevelDesc[level])
	} else {
		buf.WriteString(strings.ToUpper(entry.Level.String()))
	}
	buf.WriteByte(' ')
	buf.WriteString(entry.Time.Format(f.TimestampFormat))
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	for k, v := range entry.Data {
		fmt.Fprintf(&buf, " %s=%v", k, v)
	}

	buf.WriteByte('\n')
	return []byte(buf.String()), nil
}

type Config struct {
	Debug bool `koanf:"debug"`
	// "info", "warn", etc. Debug wins when set.
	Level      string `koanf:"level"`
	Filename   string `koanf:"filename"`
	MaxSizeMB  int    `koanf:"max_size"` // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age"` // Days
	Compress   bool   `koanf:"compress"`
}

func (cfg *Config) level() (logrus.Level, error) {
	if cfg.Debug {
		return logrus.DebugLevel, nil
	}
	if cfg.Level == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(cfg.Level)
}

func (cfg *Config) Validate() error {
	if _, err := cfg.level(); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return fmt.Errorf("log max_size, max_backups, and max_age must be >= 0")
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSizeMB:  500,
		MaxBackups: 10,
		MaxAgeDays: 30,
		Compress:   true,
	}
}

// CreateLogger writes to stdout and, when a filename is configured, to a
// rotated log file as well.
func (cfg *Config) CreateLogger(rotate bool, wrapStdlibDefault bool) *logrus.Logger {
	output := io.Writer(os.Stdout)

	if cfg.Filename != "" {
		lumberjackLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}

		if rotate {
			lumberjackLogger.Rotate()
		}

		// Fork writing into two outputs
		output = io.MultiWriter(output, lumberjackLogger)
	}

	logger := logrus.New()
	logger.SetFormatter(&PlainFormatter{
		TimestampFormat: DEFAULT_TIMESTAMP_FORMAT,
		LevelDesc:       levelDesc,
	})

	level, err := cfg.level()
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(output)

	if wrapStdlibDefault {
		log.SetOutput(logger.Writer())
	}

	return logger
}
