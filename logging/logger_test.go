package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainFormatter(t *testing.T) {
	f := &PlainFormatter{
		TimestampFormat: DEFAULT_TIMESTAMP_FORMAT,
		LevelDesc:       levelDesc,
	}

	entry := &logrus.Entry{
		Level:   logrus.WarnLevel,
		Time:    time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC),
		Message: "CATALOG: file missing",
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "WARN 2024-03-01 12:30:45 CATALOG: file missing\n", string(out))

	entry.Data = logrus.Fields{"user": "ash"}
	out, err = f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "WARN 2024-03-01 12:30:45 CATALOG: file missing user=ash\n", string(out))
}

func TestConfigLevels(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, logrus.InfoLevel, cfg.CreateLogger(false, false).GetLevel())

	cfg.Level = "warn"
	assert.Equal(t, logrus.WarnLevel, cfg.CreateLogger(false, false).GetLevel())

	cfg.Debug = true
	assert.Equal(t, logrus.DebugLevel, cfg.CreateLogger(false, false).GetLevel())

	cfg = GetDefaultConfig()
	cfg.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = GetDefaultConfig()
	cfg.MaxBackups = -1
	assert.Error(t, cfg.Validate())
}

func TestCreateLoggerWritesFile(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Filename = filepath.Join(t.TempDir(), "pvpokemon.log")

	logger := cfg.CreateLogger(false, false)
	logger.Infof("STARTUP: hello")

	data, err := os.ReadFile(cfg.Filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO ")
	assert.Contains(t, string(data), "STARTUP: hello")
}
