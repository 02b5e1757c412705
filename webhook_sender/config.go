package webhook_sender

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const DEFAULT_FLUSH_INTERVAL_SECONDS = 1

type SettingsConfig struct {
	FlushIntervalSeconds int `koanf:"flush_interval_seconds"`
	TimeoutSeconds       int `koanf:"timeout_seconds"`
	// Failed batches are retried this many times, waiting
	// retry_delay_ms * attempt in between.
	Retries      int `koanf:"retries"`
	RetryDelayMs int `koanf:"retry_delay_ms"`
}

func (cfg SettingsConfig) FlushInterval() time.Duration {
	return time.Second * time.Duration(cfg.FlushIntervalSeconds)
}

func (cfg SettingsConfig) Timeout() time.Duration {
	return time.Second * time.Duration(cfg.TimeoutSeconds)
}

func (cfg SettingsConfig) RetryDelay() time.Duration {
	return time.Millisecond * time.Duration(cfg.RetryDelayMs)
}

func (cfg SettingsConfig) Validate() error {
	if sec := cfg.FlushIntervalSeconds; sec < 1 {
		return fmt.Errorf("webhooks flush_interval_seconds should be at least 1, not %d", sec)
	}
	if sec := cfg.TimeoutSeconds; sec < 0 {
		return fmt.Errorf("webhooks timeout_seconds should be >= 0, not %d", sec)
	}
	if cfg.Retries < 0 || cfg.RetryDelayMs < 0 {
		return fmt.Errorf("webhooks retries and retry_delay_ms should be >= 0")
	}
	return nil
}

func GetDefaultSettingsConfig() SettingsConfig {
	return SettingsConfig{
		FlushIntervalSeconds: DEFAULT_FLUSH_INTERVAL_SECONDS,
		TimeoutSeconds:       10,
		Retries:              2,
		RetryDelayMs:         500,
	}
}

type WebhookConfig struct {
	Url string `koanf:"url"`
	// Only send these event types (eg "Box.EntryAdded"). Empty means all.
	EventTypes []string `koanf:"event_types"`
	Headers    []string `koanf:"headers"`
}

func (cfg *WebhookConfig) HeadersAsMap() map[string]string {
	headerMap := make(map[string]string)
	for _, header := range cfg.Headers {
		split := strings.SplitN(header, ":", 2)
		if len(split) == 2 {
			headerMap[strings.TrimSpace(split[0])] = strings.TrimSpace(split[1])
		}
	}
	return headerMap
}

func (cfg *WebhookConfig) Validate() error {
	uri, err := url.Parse(cfg.Url)
	if err != nil {
		return fmt.Errorf("invalid webhook url '%s': %w", cfg.Url, err)
	}
	if uri.Scheme != "http" && uri.Scheme != "https" {
		return fmt.Errorf("invalid webhook url '%s': scheme must be http or https", cfg.Url)
	}
	for _, header := range cfg.Headers {
		if !strings.Contains(header, ":") {
			return fmt.Errorf("invalid webhook header '%s': should be 'Name: value'", header)
		}
	}
	return nil
}

type WebhooksConfig []WebhookConfig

func (cfg WebhooksConfig) Validate() error {
	for _, webhookCfg := range cfg {
		if err := webhookCfg.Validate(); err != nil {
			return err
		}
	}
	return nil
}
