// Package config aggregates per-package configuration structs and parses
// them from the environment in one pass.
package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/intellia-hq/mailroom/pkg/db"
	"github.com/intellia-hq/mailroom/pkg/genai"
	"github.com/intellia-hq/mailroom/pkg/logger"
	"github.com/intellia-hq/mailroom/pkg/mailer/resend"
	"github.com/intellia-hq/mailroom/pkg/mailer/smtp"
	"github.com/intellia-hq/mailroom/pkg/redis"
)

// Mail provider selection values.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// ErrNoMailProvider is returned when neither SMTP nor Resend credentials
// are present for the selected provider.
var ErrNoMailProvider = errors.New("config: selected mail provider is not configured")

// Config is the full service configuration. Every field group maps to one
// package's Config struct so defaults live next to the code they affect.
type Config struct {
	// HTTP listener. When the preferred port is taken the server walks
	// forward through successive ports, bounded by FallbackAttempts.
	Port                 int           `env:"PORT" envDefault:"5000"`
	PortFallbackAttempts int           `env:"PORT_FALLBACK_ATTEMPTS" envDefault:"10"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// MailProvider selects the bulk transport: "smtp" or "resend".
	MailProvider string `env:"MAIL_PROVIDER" envDefault:"smtp"`

	SMTP   smtp.Config
	Resend resend.Config

	// OTPSMTP is a second credential set for passcode mail (OTP_SMTP_*).
	// When unconfigured the bulk credentials are used.
	OTPSMTP smtp.Config `envPrefix:"OTP_"`

	OTP struct {
		TTL           time.Duration `env:"OTP_TTL" envDefault:"5m"`
		SweepInterval time.Duration `env:"OTP_SWEEP_INTERVAL" envDefault:"60s"`
	}

	Genai    genai.Config
	Database db.Config
	Redis    redis.Config
	Sentry   logger.SentryConfig
}

// Load reads .env best-effort and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.MailProvider {
	case ProviderSMTP:
		if !c.SMTP.Configured() {
			return ErrNoMailProvider
		}
	case ProviderResend:
		if !c.Resend.Configured() {
			return ErrNoMailProvider
		}
	default:
		return ErrNoMailProvider
	}
	return nil
}
