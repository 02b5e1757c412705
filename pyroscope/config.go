package pyroscope

import (
	"errors"
	"fmt"
)

type Config struct {
	Enabled              bool              `koanf:"enabled"`
	ApplicationName      string            `koanf:"application_name"`
	ServerAddress        string            `koanf:"server_address"`
	ApiKey               string            `koanf:"api_key"`
	Tags                 map[string]string `koanf:"tags"`
	MutexProfileFraction int               `koanf:"mutex_profile_fraction"`
	BlockProfileRate     int               `koanf:"block_profile_rate"`
}

func (cfg *Config) Validate() error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.ServerAddress == "" {
		return errors.New("pyroscope is enabled but no server_address is configured")
	}
	if cfg.MutexProfileFraction < 0 || cfg.BlockProfileRate < 0 {
		return fmt.Errorf("pyroscope mutex_profile_fraction and block_profile_rate must be >= 0")
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		ApplicationName: "pvpokemon",
	}
}
