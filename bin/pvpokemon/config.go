package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/pvpokemon/pvpokemon/db_store"
	"github.com/pvpokemon/pvpokemon/httpserver"
	"github.com/pvpokemon/pvpokemon/logging"
	"github.com/pvpokemon/pvpokemon/pyroscope"
	"github.com/pvpokemon/pvpokemon/recommender"
	"github.com/pvpokemon/pvpokemon/stats_collector"
	"github.com/pvpokemon/pvpokemon/webhook_sender"
)

const ENV_PREFIX = "PVPOKEMON_"

type CatalogConfig struct {
	PokedexFile string `koanf:"pokedex_file"`
	AssetsDir   string `koanf:"assets_dir"`
	// Where box snapshots are written. Empty disables them.
	ReadModelsDir string `koanf:"read_models_dir"`
}

func (cfg *CatalogConfig) Validate() error {
	if cfg.PokedexFile == "" {
		return errors.New("no catalog pokedex_file configured")
	}
	if cfg.AssetsDir == "" {
		return errors.New("no catalog assets_dir configured")
	}
	return nil
}

type Config struct {
	Logging     logging.Config     `koanf:"logging"`
	HTTP        httpserver.Config  `koanf:"http"`
	Catalog     CatalogConfig      `koanf:"catalog"`
	Recommender recommender.Config `koanf:"recommender"`

	BoxesDb     db_store.DBConfig `koanf:"boxes_db"`
	BoxesReadDb db_store.DBConfig `koanf:"boxes_read_db"`

	Prometheus stats_collector.PrometheusConfig `koanf:"prometheus"`
	Pyroscope  pyroscope.Config                 `koanf:"pyroscope"`

	Webhooks        webhook_sender.WebhooksConfig `koanf:"webhooks"`
	WebhookSettings webhook_sender.SettingsConfig `koanf:"webhook_settings"`
}

func (cfg *Config) GetPrometheusConfig() stats_collector.PrometheusConfig {
	return cfg.Prometheus
}

func (cfg *Config) CreateLogger(rotate bool) *logrus.Logger {
	return cfg.Logging.CreateLogger(rotate, true)
}

func (cfg *Config) Validate() error {
	if err := cfg.Logging.Validate(); err != nil {
		return err
	}

	if err := cfg.HTTP.Validate(); err != nil {
		return err
	}

	if err := cfg.Catalog.Validate(); err != nil {
		return err
	}

	if err := cfg.Recommender.Validate(); err != nil {
		return err
	}

	// boxes are kept in memory without a database (eg an empty
	// boxes_db.db with the sqlite driver).
	if cfg.BoxesDb.IsConfigured() {
		if err := cfg.BoxesDb.Validate(); err != nil {
			return fmt.Errorf("boxes_db: %w", err)
		}
	}

	if cfg.BoxesReadDb.IsConfigured() {
		if !cfg.BoxesDb.IsConfigured() {
			return errors.New("boxes_read_db requires boxes_db")
		}
		if cfg.BoxesDb.IsSQLite() || cfg.BoxesReadDb.IsSQLite() {
			return errors.New("boxes_read_db is only supported with mysql")
		}
		if err := cfg.BoxesReadDb.Validate(); err != nil {
			return fmt.Errorf("boxes_read_db: %w", err)
		}
	}

	if err := cfg.Prometheus.Validate(); err != nil {
		return err
	}

	if err := cfg.Pyroscope.Validate(); err != nil {
		return err
	}

	if err := cfg.Webhooks.Validate(); err != nil {
		return err
	}

	if err := cfg.WebhookSettings.Validate(); err != nil {
		return err
	}

	return nil
}

func GetDefaultConfig() Config {
	return Config{
		Logging: logging.Config{
			Level:      "info",
			Filename:   filepath.FromSlash("logs/pvpokemon.log"),
			MaxSizeMB:  500,
			MaxAgeDays: 7,
			MaxBackups: 20,
			Compress:   true,
		},

		HTTP: httpserver.Config{
			Addr:                "127.0.0.1:5000",
			ShutdownWaitSeconds: 5,
		},

		Catalog: CatalogConfig{
			PokedexFile:   "pokedex.json",
			AssetsDir:     "assets",
			ReadModelsDir: filepath.FromSlash("data/read_models"),
		},

		Recommender: recommender.GetDefaultConfig(),

		BoxesDb: db_store.DBConfig{
			Driver: db_store.DRIVER_SQLITE,
			Db:     filepath.FromSlash("data/pvpokemon.db"),
		},

		Prometheus: stats_collector.GetDefaultPrometheusConfig(),
		Pyroscope:  pyroscope.GetDefaultConfig(),

		WebhookSettings: webhook_sender.GetDefaultSettingsConfig(),
	}
}

// envKey maps PVPOKEMON_BOXES_DB__URL to boxes_db.url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, ENV_PREFIX))
	return strings.ReplaceAll(s, "__", ".")
}

// LoadEnvFile adds the variables in 'filename' (if it exists) to the
// environment. Variables that are already set win.
func LoadEnvFile(filename string) error {
	if filename == "" {
		return nil
	}
	if _, err := os.Stat(filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("couldn't open '%s': %w", filename, err)
	}
	if err := godotenv.Load(filename); err != nil {
		return fmt.Errorf("failed to load env file '%s': %w", filename, err)
	}
	return nil
}

func configParser(filename string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// LoadConfig layers defaults, the config file (if it exists) and
// PVPOKEMON_* environment variables.
func LoadConfig(filename string, defaultConfig Config) (*Config, error) {
	k := koanf.New(".")
	err := k.Load(structs.Provider(defaultConfig, "koanf"), nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't load default config: %w", err)
	}

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			err = k.Load(file.Provider(filename), configParser(filename))
			if err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("couldn't open '%s': %w", filename, err)
		}
	}

	err = k.Load(env.Provider(ENV_PREFIX, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
