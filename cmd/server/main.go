package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"

	"github.com/intellia-hq/mailroom/internal/config"
	"github.com/intellia-hq/mailroom/internal/handler"
	"github.com/intellia-hq/mailroom/internal/server"
	"github.com/intellia-hq/mailroom/pkg/audit"
	"github.com/intellia-hq/mailroom/pkg/db"
	"github.com/intellia-hq/mailroom/pkg/genai"
	"github.com/intellia-hq/mailroom/pkg/health"
	"github.com/intellia-hq/mailroom/pkg/logger"
	"github.com/intellia-hq/mailroom/pkg/mailer"
	"github.com/intellia-hq/mailroom/pkg/mailer/resend"
	"github.com/intellia-hq/mailroom/pkg/mailer/smtp"
	"github.com/intellia-hq/mailroom/pkg/otp"
	"github.com/intellia-hq/mailroom/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithSentry(cfg.Sentry, logger.RequestIDExtractor())
	ctx := context.Background()

	var hooks []server.Hook
	checks := health.Checks{}

	// Audit sink: Postgres when a database is configured, no-op otherwise.
	var sink audit.Sink = audit.Noop{}
	if cfg.Database.Configured() {
		pool, err := db.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := audit.Migrate(ctx, pool, log); err != nil {
			return fmt.Errorf("migrate audit schema: %w", err)
		}
		sink = audit.NewPostgres(pool, log)
		checks["postgres"] = db.Healthcheck(pool)
		hooks = append(hooks, server.Hook(db.Shutdown(pool)))
	} else {
		log.Info("no database configured, audit logging disabled")
	}

	// Passcode store: Redis when configured, in-process memory otherwise.
	var store otp.Store
	if cfg.Redis.Configured() {
		client, err := redis.Open(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		store = otp.NewRedis(client, "otp")
		checks["redis"] = redis.Healthcheck(client)
		hooks = append(hooks, server.Hook(redis.Shutdown(client)))
	} else {
		store = otp.NewMemory()
	}
	hooks = append(hooks, func(context.Context) error { return store.Close() })

	bulkSender, fromEmail, err := buildBulkSender(cfg)
	if err != nil {
		return err
	}

	// Passcode mail goes through its own credential set when one exists.
	otpSender := bulkSender
	if cfg.OTPSMTP.Configured() {
		otpSender = smtp.New(cfg.OTPSMTP)
	}

	otpService := otp.NewService(store, otpSender,
		otp.WithTTL(cfg.OTP.TTL),
		otp.WithAuditSink(sink),
		otp.WithLogger(log),
	)

	// Periodic sweep of expired passcodes.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(fmt.Sprintf("@every %s", cfg.OTP.SweepInterval), func() {
		sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := otpService.Sweep(sweepCtx); err != nil {
			log.Warn("passcode sweep failed", slog.Any("error", err))
		}
	}); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	sweeper.Start()
	hooks = append(hooks, func(ctx context.Context) error {
		select {
		case <-sweeper.Stop().Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	handlerOpts := []handler.Option{
		handler.WithHealthChecks(checks),
		handler.WithFromEmail(fromEmail),
	}
	if cfg.Genai.Configured() {
		handlerOpts = append(handlerOpts, handler.WithGenerator(genai.New(cfg.Genai)))
	} else {
		log.Info("no generative-AI key configured, template generation disabled")
	}

	h := handler.New(bulkSender, otpService, log, handlerOpts...)

	hooks = append(hooks, func(context.Context) error {
		sentry.Flush(2 * time.Second)
		return nil
	})

	return server.Run(ctx, server.Config{
		Port:             cfg.Port,
		FallbackAttempts: cfg.PortFallbackAttempts,
		ShutdownTimeout:  cfg.ShutdownTimeout,
	}, h.Router(), log, hooks...)
}

// buildBulkSender picks the configured bulk transport and reports the
// default sender address for From headers.
func buildBulkSender(cfg *config.Config) (mailer.Sender, string, error) {
	switch cfg.MailProvider {
	case config.ProviderResend:
		return resend.New(cfg.Resend), cfg.Resend.SenderEmail, nil
	case config.ProviderSMTP:
		return smtp.New(cfg.SMTP), cfg.SMTP.SenderEmail, nil
	default:
		return nil, "", config.ErrNoMailProvider
	}
}
