package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s"
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the explicit configuration for a guarded chat session and its
// surrounding CLI. Nothing here is ambient; the loaded value is passed into
// constructors.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
	Redis    RedisConfig    `yaml:"redis"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// ProviderConfig identifies the managed chat and moderation models
type ProviderConfig struct {
	// APIKeyEnv names the environment variable holding the provider key
	APIKeyEnv string `yaml:"api_key_env"`

	// ChatModel is the chat model identifier
	ChatModel string `yaml:"chat_model"`

	// ModerationModel is the moderation policy model identifier
	ModerationModel string `yaml:"moderation_model"`
}

// SessionConfig configures the conversation session
type SessionConfig struct {
	// SystemPrompt seeds the transcript's system turn. It may be a Go
	// template referencing Variables.
	SystemPrompt string `yaml:"system_prompt"`

	// Variables are substituted into the system prompt template
	Variables map[string]string `yaml:"variables"`

	// Timeout bounds each chat model call; zero means no deadline
	Timeout Duration `yaml:"timeout"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RedisConfig configures the optional Redis turn store
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// TracingConfig configures the optional tracers
type TracingConfig struct {
	OTel     OTelConfig     `yaml:"otel"`
	Langfuse LangfuseConfig `yaml:"langfuse"`
}

// OTelConfig configures OpenTelemetry export
type OTelConfig struct {
	Enabled           bool   `yaml:"enabled"`
	ServiceName       string `yaml:"service_name"`
	CollectorEndpoint string `yaml:"collector_endpoint"`
}

// LangfuseConfig configures Langfuse export
type LangfuseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Environment string `yaml:"environment"`
}

// Default returns the configuration used when no file is supplied
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			APIKeyEnv:       "OPENAI_API_KEY",
			ChatModel:       "gpt-4o-mini",
			ModerationModel: "omni-moderation-latest",
		},
		Session: SessionConfig{
			SystemPrompt: "You are a helpful assistant.",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file, applying defaults for absent fields
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Provider.APIKeyEnv == "" {
		cfg.Provider.APIKeyEnv = "OPENAI_API_KEY"
	}

	return cfg, nil
}

// APIKey resolves the provider key from the configured environment variable
func (c *Config) APIKey() (string, error) {
	key := os.Getenv(c.Provider.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", c.Provider.APIKeyEnv)
	}
	return key, nil
}
