package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath        = "config.toml"
	DefaultHTTPAddr          = ":8081"
	DefaultWebhookPath       = "/whatsapp"
	DefaultAssistantID       = "agent"
	DefaultMediaTimeoutSecs  = 20
	DefaultStreamTimeoutSecs = 120
	DefaultMediaMaxBytes     = 16 << 20
)

type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Twilio  TwilioConfig  `toml:"twilio"`
	Runtime RuntimeConfig `toml:"runtime"`
	Media   MediaConfig   `toml:"media"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// TwilioConfig carries the messaging-provider credentials. The auth token
// both signs webhook callbacks and authenticates media downloads.
type TwilioConfig struct {
	AccountSID  string `toml:"account_sid" validate:"required"`
	AuthToken   string `toml:"auth_token" validate:"required"`
	WebhookPath string `toml:"webhook_path"`
}

// RuntimeConfig points at the remote agent runtime.
type RuntimeConfig struct {
	BaseURL     string `toml:"base_url" validate:"required,url"`
	AssistantID string `toml:"assistant_id" validate:"required"`
	// ConfigJSON is an opaque configuration blob forwarded verbatim on every run.
	ConfigJSON        string `toml:"config_json"`
	StreamTimeoutSecs int    `toml:"stream_timeout_seconds"`
}

type MediaConfig struct {
	TimeoutSecs int   `toml:"timeout_seconds"`
	MaxBytes    int64 `toml:"max_bytes"`
}

// GraphConfig parses the opaque runtime config blob. An empty blob is an
// empty object, matching what the runtime expects for "no overrides".
func (r RuntimeConfig) GraphConfig() (map[string]any, error) {
	raw := strings.TrimSpace(r.ConfigJSON)
	if raw == "" {
		return map[string]any{}, nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse runtime config_json: %w", err)
	}
	return parsed, nil
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Twilio: TwilioConfig{
			WebhookPath: DefaultWebhookPath,
		},
		Runtime: RuntimeConfig{
			AssistantID:       DefaultAssistantID,
			StreamTimeoutSecs: DefaultStreamTimeoutSecs,
		},
		Media: MediaConfig{
			TimeoutSecs: DefaultMediaTimeoutSecs,
			MaxBytes:    DefaultMediaMaxBytes,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays environment variables on top of file values. Secrets are
// usually injected this way in deployments.
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")); v != "" {
		cfg.Twilio.AccountSID = v
	}
	if v := strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")); v != "" {
		cfg.Twilio.AuthToken = v
	}
	if v := strings.TrimSpace(os.Getenv("LANGGRAPH_URL")); v != "" {
		cfg.Runtime.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LANGGRAPH_ASSISTANT_ID")); v != "" {
		cfg.Runtime.AssistantID = v
	}
	if v := strings.TrimSpace(os.Getenv("CONFIG")); v != "" {
		cfg.Runtime.ConfigJSON = v
	}
}
