package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intellia-hq/mailroom/internal/handler"
	"github.com/intellia-hq/mailroom/pkg/genai"
	"github.com/intellia-hq/mailroom/pkg/retry"
)

func generatorFor(t *testing.T, upstream http.HandlerFunc) *genai.Client {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	return genai.New(
		genai.Config{APIKey: "k", Model: "m", Endpoint: srv.URL},
		genai.WithHTTPClient(srv.Client()),
		genai.WithPolicy(retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, Multiplier: 2}),
	)
}

func TestGenerateEmail(t *testing.T) {
	t.Parallel()

	t.Run("returns generated html", func(t *testing.T) {
		t.Parallel()

		gen := generatorFor(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"<p>Welcome [Name]</p>"}]}}]}`))
		})
		env := newTestEnv(t, handler.WithGenerator(gen))

		rec := env.do(t, postJSON(t, "/generate-email", map[string]any{"content": "welcome mail"}))
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody[struct {
			HTML string `json:"html"`
		}](t, rec)
		require.Contains(t, resp.HTML, "Welcome [Name]")
	})

	t.Run("requires content", func(t *testing.T) {
		t.Parallel()

		gen := generatorFor(t, func(w http.ResponseWriter, _ *http.Request) {})
		env := newTestEnv(t, handler.WithGenerator(gen))

		rec := env.do(t, postJSON(t, "/generate-email", map[string]any{}))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("surfaces upstream detail on failure", func(t *testing.T) {
		t.Parallel()

		gen := generatorFor(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
		})
		env := newTestEnv(t, handler.WithGenerator(gen))

		rec := env.do(t, postJSON(t, "/generate-email", map[string]any{"content": "welcome"}))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "model not found")
	})

	t.Run("unconfigured generator responds 503", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		rec := env.do(t, postJSON(t, "/generate-email", map[string]any{"content": "welcome"}))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
