package otp

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/intellia-hq/mailroom/pkg/audit"
	"github.com/intellia-hq/mailroom/pkg/mailer"
)

//go:embed templates
var templatesFS embed.FS

const (
	defaultTTL     = 5 * time.Minute
	codeTemplate   = "code.md"
	defaultLayout  = "base.html"
	defaultSubject = "Your verification code"
)

// Service orchestrates the OTP flow: code generation, storage, delivery,
// and auditing.
type Service struct {
	store    Store
	sender   mailer.Sender
	renderer *mailer.Renderer
	sink     audit.Sink
	log      *slog.Logger
	ttl      time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTTL overrides the default 5-minute code lifetime.
func WithTTL(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithAuditSink sets the audit sink. Defaults to audit.Noop.
func WithAuditSink(sink audit.Sink) ServiceOption {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates an OTP service over a store and a mail transport.
func NewService(store Store, sender mailer.Sender, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		sender: sender,
		renderer: mailer.NewRenderer(templatesFS, mailer.RendererConfig{
			TemplateDir: "templates",
			LayoutDir:   "templates/layouts",
		}),
		sink: audit.Noop{},
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		ttl:  defaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue generates a fresh code for the address, overwriting any existing
// one, and emails it. The audit record is best-effort: its failure never
// fails the issuance.
func (s *Service) Issue(ctx context.Context, email string) error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}

	rec := Record{Code: code, ExpiresAt: time.Now().Add(s.ttl)}
	if err := s.store.Put(ctx, email, rec); err != nil {
		return fmt.Errorf("otp: store code: %w", err)
	}

	result, err := s.renderer.Render(defaultLayout, codeTemplate, map[string]any{
		"Code":    code,
		"Minutes": int(s.ttl.Minutes()),
	})
	if err != nil {
		return err
	}

	msg := &mailer.Email{
		To:      []string{email},
		Subject: result.Subject(defaultSubject),
		HTML:    result.HTML,
		Text:    result.Text,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return errors.Join(mailer.ErrSendFailed, err)
	}

	s.sink.Record(ctx, audit.Event{
		Kind:   audit.KindOTPIssued,
		Email:  email,
		Detail: fmt.Sprintf("code expires at %s", rec.ExpiresAt.Format(time.RFC3339)),
		At:     time.Now(),
	})

	return nil
}

// Verify checks a submitted code. Success and expiry both delete the
// record; a mismatch keeps it so the user can retry with the right code.
// A successful code is therefore single-use: repeating it yields ErrNotFound.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	rec, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}

	if rec.Expired(time.Now()) {
		if err := s.store.Delete(ctx, email); err != nil {
			s.log.WarnContext(ctx, "failed to delete expired otp record",
				slog.String("error", err.Error()))
		}
		s.record(ctx, audit.KindOTPRejected, email, "expired")
		return ErrExpired
	}

	if rec.Code != code {
		s.record(ctx, audit.KindOTPRejected, email, "mismatch")
		return ErrMismatch
	}

	if err := s.store.Delete(ctx, email); err != nil {
		return fmt.Errorf("otp: delete verified code: %w", err)
	}

	s.record(ctx, audit.KindOTPVerified, email, "")
	return nil
}

// Sweep removes expired records; scheduled by the server on a fixed interval.
func (s *Service) Sweep(ctx context.Context) error {
	return s.store.Sweep(ctx)
}

func (s *Service) record(ctx context.Context, kind, email, detail string) {
	s.sink.Record(ctx, audit.Event{Kind: kind, Email: email, Detail: detail, At: time.Now()})
}
