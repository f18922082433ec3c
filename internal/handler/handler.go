// Package handler wires the HTTP surface: multipart decoding for bulk
// sends, JSON codecs for the OTP and template-generation endpoints, and
// the error taxonomy mapping failures to status codes.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/intellia-hq/mailroom/pkg/genai"
	"github.com/intellia-hq/mailroom/pkg/health"
	"github.com/intellia-hq/mailroom/pkg/mailer"
	"github.com/intellia-hq/mailroom/pkg/otp"
)

// Handler exposes the service's HTTP endpoints.
type Handler struct {
	bulk      mailer.Sender
	otp       *otp.Service
	generator *genai.Client // nil when no API key is configured
	checks    health.Checks
	fromEmail string // bulk sender address, combined with per-request display names
	log       *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithGenerator enables the template-generation endpoint.
func WithGenerator(c *genai.Client) Option {
	return func(h *Handler) { h.generator = c }
}

// WithHealthChecks attaches dependency checks to the readiness endpoint.
func WithHealthChecks(checks health.Checks) Option {
	return func(h *Handler) { h.checks = checks }
}

// WithFromEmail sets the bulk sender address used when a request supplies a
// display name.
func WithFromEmail(email string) Option {
	return func(h *Handler) { h.fromEmail = email }
}

// New creates a Handler around the bulk transport and the passcode service.
func New(bulk mailer.Sender, otpService *otp.Service, log *slog.Logger, opts ...Option) *Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{bulk: bulk, otp: otpService, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router builds the chi router with the standard middleware chain.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Mailroom is running"))
	})
	r.Get("/healthz", health.Handler(h.checks, h.log))

	r.Post("/send-csv", h.sendCSV)
	r.Post("/send-mails", h.sendMails)
	r.Post("/send-otp", h.sendOTP)
	r.Post("/verify-otp", h.verifyOTP)
	r.Post("/generate-email", h.generateEmail)

	return r
}

// requestLogger emits one structured line per request.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.log.InfoContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
		)
	})
}
