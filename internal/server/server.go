// Package server owns the HTTP runtime: port binding with automatic
// fallback, graceful shutdown on OS signals, and shutdown hooks for the
// process's long-lived resources.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout       = 15 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 10 * time.Second
)

// ErrNoFreePort is returned when the preferred port and all fallback
// candidates are taken.
var ErrNoFreePort = errors.New("server: no free port in fallback range")

// Config holds runtime parameters for Run.
type Config struct {
	// Port is the preferred listening port. If binding fails because the
	// port is in use, successive ports are tried, up to FallbackAttempts.
	Port             int
	FallbackAttempts int
	ShutdownTimeout  time.Duration
}

// Hook is a shutdown hook, run after the HTTP server has drained.
type Hook func(ctx context.Context) error

// Run binds a listener, serves until SIGINT/SIGTERM or a listener error,
// then drains in-flight requests and runs the hooks in order. Blocks until
// shutdown completes.
func Run(ctx context.Context, cfg Config, handler http.Handler, log *slog.Logger, hooks ...Hook) error {
	if log == nil {
		log = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	ln, port, err := listenWithFallback(cfg.Port, cfg.FallbackAttempts)
	if err != nil {
		return err
	}
	if port != cfg.Port {
		log.Warn("preferred port in use, falling back",
			slog.Int("preferred", cfg.Port),
			slog.Int("port", port),
		)
	}

	// WriteTimeout stays unset: a bulk send runs its whole batch inside the
	// request, and the response cannot be cut off mid-batch.
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       defaultReadTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range hooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		log.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}

// listenWithFallback binds the preferred port, walking forward through
// successive ports while the bind fails with "address in use".
func listenWithFallback(port, attempts int) (net.Listener, int, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := range attempts {
		candidate := port + i
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", candidate))
		if err == nil {
			return ln, candidate, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, 0, err
		}
		lastErr = err
	}

	return nil, 0, errors.Join(ErrNoFreePort, lastErr)
}
