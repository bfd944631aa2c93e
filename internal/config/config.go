package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Mail providers
const (
	MailProviderSendGrid = "sendgrid"
	MailProviderSMTP     = "smtp"
)

// SMTP transport security modes
const (
	SMTPSecuritySTARTTLS = "starttls"
	SMTPSecurityTLS      = "tls"
	SMTPSecurityNone     = "none"
)

// Rate limit stores
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrMailNotConfigured = errors.New("email service is not configured")
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment string        `env:"ENV" envDefault:"development"`
	Port        string        `env:"API_PORT" envDefault:"8080"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string        `env:"LOG_FILE"`
	LogMaxSize  int           `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogBackups  int           `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAge   int           `env:"LOG_MAX_AGE_DAYS" envDefault:"7"`
	LogRequests bool          `env:"LOG_REQUESTS" envDefault:"false"`
	MaxBodySize int64         `env:"MAX_BODY_SIZE" envDefault:"65536"`
	Timeout     time.Duration `env:"OUTBOUND_TIMEOUT" envDefault:"10s"`

	// Site Configuration
	SiteName       string   `env:"SITE_NAME" envDefault:"Mesa Verde Cleaning"`
	SiteURL        string   `env:"SITE_URL" envDefault:"https://mesaverdecleaning.com"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	Services       []string `env:"OFFERED_SERVICES" envSeparator:"," envDefault:"Regular Home Cleaning,Deep Cleaning,Move In/Out Cleaning,Office Cleaning,Post-Construction Cleaning,Other"`

	Mail      MailConfig
	Recaptcha RecaptchaConfig
	RateLimit RateLimitConfig

	// Telemetry Configuration
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure   bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"mesaverde-site"`
}

// MailConfig configures the outbound email provider
type MailConfig struct {
	Provider       string `env:"MAIL_PROVIDER" envDefault:"sendgrid"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	SendGridHost   string `env:"SENDGRID_HOST" envDefault:"https://api.sendgrid.com"`
	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPSecurity   string `env:"SMTP_SECURITY" envDefault:"starttls"`
	SMTPUsername   string `env:"SMTP_USERNAME"`
	SMTPPassword   string `env:"SMTP_PASSWORD"`
	FromAddress    string `env:"EMAIL_FROM_ADDRESS" envDefault:"contact@mesaverdecleaning.com"`
	FromName       string `env:"EMAIL_FROM_NAME" envDefault:"Mesa Verde Cleaning Contact Form"`
	ToAddress      string `env:"EMAIL_TO_ADDRESS" envDefault:"contact@mesaverdecleaning.com"`
}

// RecaptchaConfig configures the reCAPTCHA v3 verifier
type RecaptchaConfig struct {
	SecretKey      string  `env:"RECAPTCHA_SECRET_KEY"`
	VerifyURL      string  `env:"RECAPTCHA_VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	MinScore       float64 `env:"RECAPTCHA_MIN_SCORE" envDefault:"0.5"`
	ExpectedAction string  `env:"RECAPTCHA_EXPECTED_ACTION"`
}

// RateLimitConfig configures the per-address contact form limiter and the
// optional process-wide guard on /api. GlobalRPS 0 turns the guard off.
type RateLimitConfig struct {
	MaxRequests   int     `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	WindowMs      int64   `env:"RATE_LIMIT_WINDOW_MS" envDefault:"900000"`
	Store         string  `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	RedisAddr     string  `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string  `env:"REDIS_PASSWORD"`
	RedisDB       int     `env:"REDIS_DB" envDefault:"0"`
	GlobalRPS     float64 `env:"GLOBAL_RPS" envDefault:"0"`
	GlobalBurst   int     `env:"GLOBAL_BURST" envDefault:"0"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{
		"internal/config/env/.env.development",
		".env",
	}

	// If ENV is set, try to load that specific file first
	envName := os.Getenv("ENV")
	if envName != "" {
		envLocations = append([]string{
			fmt.Sprintf("internal/config/env/.env.%s", envName),
			fmt.Sprintf(".env.%s", envName),
		}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv.Load never overrides variables already present in the environment
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	return Parse()
}

// Parse reads the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Services = trimAll(cfg.Services)
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	cfg.TrustedProxies = trimAll(cfg.TrustedProxies)
	cfg.Mail.Provider = strings.ToLower(strings.TrimSpace(cfg.Mail.Provider))
	cfg.Mail.SMTPSecurity = strings.ToLower(strings.TrimSpace(cfg.Mail.SMTPSecurity))
	cfg.RateLimit.Store = strings.ToLower(strings.TrimSpace(cfg.RateLimit.Store))

	if cfg.LogFile == "" {
		if cfg.IsProduction() {
			cfg.LogFile = "/app/logs/api.log"
		} else {
			cfg.LogFile = "./logs/api.log"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return cfg, nil
}

// Validate performs the structural checks that must hold before the server starts
func (c *Config) Validate() error {
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("%w: RATE_LIMIT_MAX_REQUESTS must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.WindowMs <= 0 {
		return fmt.Errorf("%w: RATE_LIMIT_WINDOW_MS must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.GlobalRPS < 0 {
		return fmt.Errorf("%w: GLOBAL_RPS must not be negative", ErrInvalidConfig)
	}
	if c.RateLimit.GlobalRPS > 0 && c.RateLimit.GlobalBurst <= 0 {
		return fmt.Errorf("%w: GLOBAL_BURST must be positive when GLOBAL_RPS is set", ErrInvalidConfig)
	}
	switch c.RateLimit.Store {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return fmt.Errorf("%w: unknown RATE_LIMIT_STORE %q", ErrInvalidConfig, c.RateLimit.Store)
	}
	if c.Recaptcha.MinScore < 0 || c.Recaptcha.MinScore > 1 {
		return fmt.Errorf("%w: RECAPTCHA_MIN_SCORE must be within [0,1]", ErrInvalidConfig)
	}
	switch c.Mail.Provider {
	case MailProviderSendGrid, MailProviderSMTP:
	default:
		return fmt.Errorf("%w: unknown MAIL_PROVIDER %q", ErrInvalidConfig, c.Mail.Provider)
	}
	if c.Mail.Provider == MailProviderSMTP {
		switch c.Mail.SMTPSecurity {
		case SMTPSecuritySTARTTLS, SMTPSecurityTLS, SMTPSecurityNone:
		default:
			return fmt.Errorf("%w: unknown SMTP_SECURITY %q", ErrInvalidConfig, c.Mail.SMTPSecurity)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: OUTBOUND_TIMEOUT must be positive", ErrInvalidConfig)
	}
	return nil
}

// MailReady reports whether the outbound mail provider has everything it
// needs to deliver a message
func (c *Config) MailReady() error {
	if c.Mail.FromAddress == "" || c.Mail.ToAddress == "" {
		return fmt.Errorf("%w: sender and recipient addresses are required", ErrMailNotConfigured)
	}
	switch c.Mail.Provider {
	case MailProviderSendGrid:
		if c.Mail.SendGridAPIKey == "" {
			return fmt.Errorf("%w: SENDGRID_API_KEY is missing", ErrMailNotConfigured)
		}
	case MailProviderSMTP:
		if c.Mail.SMTPHost == "" {
			return fmt.Errorf("%w: SMTP_HOST is missing", ErrMailNotConfigured)
		}
	}
	return nil
}

// RateLimitWindow returns the contact form window as a duration
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowMs) * time.Millisecond
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Masked returns a copy with secrets replaced, safe to print
func (c *Config) Masked() Config {
	out := *c
	out.Mail.SendGridAPIKey = mask(c.Mail.SendGridAPIKey)
	out.Mail.SMTPPassword = mask(c.Mail.SMTPPassword)
	out.Recaptcha.SecretKey = mask(c.Recaptcha.SecretKey)
	out.RateLimit.RedisPassword = mask(c.RateLimit.RedisPassword)
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
