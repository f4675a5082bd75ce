package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WebhookPath is the route Apollo posts phone reveals to.
const WebhookPath = "/api/apollo/webhook/phone-numbers"

// Config holds the full application configuration.
type Config struct {
	Apollo     ApolloConfig     `yaml:"apollo" mapstructure:"apollo"`
	Enrichment EnrichmentConfig `yaml:"enrichment" mapstructure:"enrichment"`
	Contacts   ContactsConfig   `yaml:"contacts" mapstructure:"contacts"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ApolloConfig holds Apollo API settings.
type ApolloConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// OAuth sends Key as a bearer access token.
	OAuth bool `yaml:"oauth" mapstructure:"oauth"`
	// WebhookURL overrides the URL derived from BackendURL.
	WebhookURL  string        `yaml:"webhook_url" mapstructure:"webhook_url"`
	BackendURL  string        `yaml:"backend_url" mapstructure:"backend_url"`
	RateLimit   float64       `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int           `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retry       RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Circuit     CircuitConfig `yaml:"circuit" mapstructure:"circuit"`
}

// RetryConfig controls retries of transient Apollo failures.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
}

// CircuitConfig controls the Apollo circuit breaker.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// EnrichmentConfig tunes the orchestrator and the two ledgers.
type EnrichmentConfig struct {
	RetentionMinutes     int `yaml:"retention_minutes" mapstructure:"retention_minutes"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" mapstructure:"sweep_interval_minutes"`
	Concurrency          int `yaml:"concurrency" mapstructure:"concurrency"`
	WindowDelayMs        int `yaml:"window_delay_ms" mapstructure:"window_delay_ms"`
	SequentialDelayMs    int `yaml:"sequential_delay_ms" mapstructure:"sequential_delay_ms"`
	WebhookWaitMs        int `yaml:"webhook_wait_ms" mapstructure:"webhook_wait_ms"`
}

// Retention returns the ledger TTL.
func (e EnrichmentConfig) Retention() time.Duration {
	return time.Duration(e.RetentionMinutes) * time.Minute
}

// SweepInterval returns the ledger sweep period.
func (e EnrichmentConfig) SweepInterval() time.Duration {
	return time.Duration(e.SweepIntervalMinutes) * time.Minute
}

// ContactsConfig selects the downstream contact store.
type ContactsConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID  string  `yaml:"client_id" mapstructure:"client_id"`
	Username  string  `yaml:"username" mapstructure:"username"`
	KeyPath   string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL  string  `yaml:"login_url" mapstructure:"login_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// WebhookURL returns the URL Apollo should deliver phone reveals to:
// apollo.webhook_url when set, else apollo.backend_url, else localhost on the
// server port.
func (c *Config) WebhookURL() string {
	if c.Apollo.WebhookURL != "" {
		return c.Apollo.WebhookURL
	}
	base := c.Apollo.BackendURL
	if base == "" {
		base = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	return strings.TrimRight(base, "/") + WebhookPath
}

// envOnlyKeys have no default, so AutomaticEnv alone would never see them.
var envOnlyKeys = []string{
	"apollo.key",
	"apollo.oauth",
	"apollo.webhook_url",
	"apollo.backend_url",
	"salesforce.client_id",
	"salesforce.username",
	"salesforce.key_path",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("apollo.base_url", "https://api.apollo.io/api/v1")
	v.SetDefault("apollo.rate_limit", 5)
	v.SetDefault("apollo.timeout_secs", 30)
	v.SetDefault("apollo.retry.max_attempts", 3)
	v.SetDefault("apollo.retry.initial_backoff_ms", 500)
	v.SetDefault("apollo.circuit.failure_threshold", 5)
	v.SetDefault("apollo.circuit.reset_timeout_secs", 30)
	v.SetDefault("enrichment.retention_minutes", 60)
	v.SetDefault("enrichment.sweep_interval_minutes", 30)
	v.SetDefault("enrichment.concurrency", 5)
	v.SetDefault("enrichment.window_delay_ms", 100)
	v.SetDefault("enrichment.sequential_delay_ms", 100)
	v.SetDefault("enrichment.webhook_wait_ms", 2000)
	v.SetDefault("contacts.driver", "sqlite")
	v.SetDefault("contacts.database_url", "contacts.db")
	v.SetDefault("contacts.max_conns", 5)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_limit", 10)
	v.SetDefault("server.port", 4001)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Redacted returns a copy with credentials masked, for display.
func (c Config) Redacted() Config {
	c.Apollo.Key = mask(c.Apollo.Key)
	c.Contacts.DatabaseURL = maskURL(c.Contacts.DatabaseURL)
	c.Salesforce.ClientID = mask(c.Salesforce.ClientID)
	return c
}

// KeyPrefix returns the first 8 characters of a credential for logs.
func KeyPrefix(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:8] + "..."
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return KeyPrefix(s)
}

// maskURL hides the password in a user:pass@host connection string.
func maskURL(s string) string {
	at := strings.LastIndex(s, "@")
	scheme := strings.Index(s, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return s
	}
	creds := s[scheme+3 : at]
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return s
	}
	return s[:scheme+3] + user + ":****" + s[at:]
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
