package httpserver

import (
	"errors"
	"fmt"
	"time"
)

const DEFAULT_SHUTDOWN_WAIT_SECONDS = 5

type Config struct {
	Addr                string `koanf:"addr"`
	ShutdownWaitSeconds int    `koanf:"shutdown_wait_seconds"`
}

func (cfg *Config) ShutdownWaitTimeout() time.Duration {
	if cfg.ShutdownWaitSeconds <= 0 {
		return DEFAULT_SHUTDOWN_WAIT_SECONDS * time.Second
	}
	return time.Duration(cfg.ShutdownWaitSeconds) * time.Second
}

func (cfg *Config) Validate() error {
	if cfg.Addr == "" {
		return errors.New("no http addr configured")
	}
	if cfg.ShutdownWaitSeconds < 0 {
		return fmt.Errorf("invalid shutdown_wait_seconds '%d': must be >= 0", cfg.ShutdownWaitSeconds)
	}
	return nil
}
