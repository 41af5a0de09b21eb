package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the
// QUOTEBOT_ prefix with underscores separating nested keys
// (e.g. QUOTEBOT_SERVER_PORT) and take precedence over file values.
// Returns a validated Config or an error describing what is missing.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything can come from env.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("QUOTEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not register keys for Unmarshal, so bind each key
	// explicitly.
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %q: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for settings that have a sensible value
// out of the box. Required secrets and endpoints have no defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("agent.model_name", "gemini-2.0-flash")
	v.SetDefault("agent.max_retries", 3)
	v.SetDefault("agent.retry_delay_seconds", 2)
	v.SetDefault("supervisor.deadline_seconds", 20)
	v.SetDefault("supervisor.cadence_seconds", 20)
	v.SetDefault("supervisor.waiting_messages", []string{
		"I'm processing your request, give me a moment...",
		"Sorry for the delay, I'm still working on your request.",
		"I'm sorry, I had a technical issue and couldn't process your request. Could you contact support?",
	})
	v.SetDefault("history.max_messages", 4)
}

// configKeys lists every key that may be supplied through the environment.
func configKeys() []string {
	return []string{
		"server.port",
		"server.log_level",
		"database.url",
		"chat.audience",
		"chat.allowed_domain",
		"agent.gemini_api_key",
		"agent.model_name",
		"agent.instructions",
		"agent.max_retries",
		"agent.retry_delay_seconds",
		"supervisor.deadline_seconds",
		"supervisor.cadence_seconds",
		"supervisor.waiting_messages",
		"history.max_messages",
		"secrets.region",
		"secrets.secret_name",
	}
}
