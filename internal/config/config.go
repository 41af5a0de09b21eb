package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Chat       ChatConfig       `mapstructure:"chat"       validate:"required"`
	Agent      AgentConfig      `mapstructure:"agent"      validate:"required"`
	Supervisor SupervisorConfig `mapstructure:"supervisor" validate:"required"`
	History    HistoryConfig    `mapstructure:"history"    validate:"required"`
	Secrets    SecretsConfig    `mapstructure:"secrets"    validate:"required"`
}

// ServerConfig contains all HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the conversation-history database settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// ChatConfig contains Google Chat integration settings.
type ChatConfig struct {
	// Audience is the value the `aud` claim of inbound Google Chat ID
	// tokens must match (the app's HTTPS endpoint or project number).
	Audience string `mapstructure:"audience" validate:"required"`

	// AllowedDomain restricts which sender email domain may talk to the bot.
	AllowedDomain string `mapstructure:"allowed_domain" validate:"required,fqdn"`
}

// AgentConfig contains AI agent integration settings.
type AgentConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"      validate:"required"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	Instructions      string `mapstructure:"instructions"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// SupervisorConfig contains the fast-path deadline, the background polling
// cadence, and the ordered script of waiting messages. The last entry of the
// script is reserved as the giving-up notice, so at least two entries are
// required.
type SupervisorConfig struct {
	DeadlineSeconds int      `mapstructure:"deadline_seconds" validate:"required,gt=0"`
	CadenceSeconds  int      `mapstructure:"cadence_seconds"  validate:"required,gt=0"`
	WaitingMessages []string `mapstructure:"waiting_messages" validate:"required,min=2,dive,required"`
}

// HistoryConfig bounds the per-user conversation history.
type HistoryConfig struct {
	MaxMessages int `mapstructure:"max_messages" validate:"required,gt=0"`
}

// SecretsConfig locates the Google service-account JSON in AWS Secrets
// Manager. The service account is used to post messages through the Google
// Chat REST API once the synchronous webhook response window has passed.
type SecretsConfig struct {
	Region     string `mapstructure:"region"      validate:"required"`
	SecretName string `mapstructure:"secret_name" validate:"required"`
}
