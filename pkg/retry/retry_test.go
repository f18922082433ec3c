package retry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intellia-hq/mailroom/pkg/retry"
)

// fastPolicy keeps test runs quick; the schedule shape is what matters.
func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 5, BaseDelay: time.Millisecond, Multiplier: 2.0}
}

func TestPostJSONSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	data, err := retry.PostJSON(context.Background(), srv.Client(), srv.URL,
		map[string]string{"X-Api-Key": "secret"},
		map[string]string{"hello": "world"},
		fastPolicy(),
	)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(data))
}

func TestPostJSONRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`recovered`))
	}))
	t.Cleanup(srv.Close)

	data, err := retry.PostJSON(context.Background(), srv.Client(), srv.URL, nil, nil, fastPolicy())
	require.NoError(t, err)
	require.Equal(t, "recovered", string(data))
	require.EqualValues(t, 3, calls.Load())
}

func TestPostJSONRetriesRateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`ok`))
	}))
	t.Cleanup(srv.Close)

	_, err := retry.PostJSON(context.Background(), srv.Client(), srv.URL, nil, nil, fastPolicy())
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
}

func TestPostJSONExhaustsAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := retry.PostJSON(context.Background(), srv.Client(), srv.URL, nil, nil, fastPolicy())
	require.ErrorIs(t, err, retry.ErrExhausted)
	require.EqualValues(t, 5, calls.Load())
}

func TestPostJSONPermanentFailureNoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`invalid request payload`))
	}))
	t.Cleanup(srv.Close)

	_, err := retry.PostJSON(context.Background(), srv.Client(), srv.URL, nil, nil, fastPolicy())
	require.Error(t, err)
	require.NotErrorIs(t, err, retry.ErrExhausted)
	require.EqualValues(t, 1, calls.Load())

	// The response body travels with the error for detail extraction.
	var statusErr *retry.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	require.Equal(t, "invalid request payload", string(statusErr.Body))
}

func TestPostJSONNetworkErrorRetries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening: every attempt fails at the dial

	_, err := retry.PostJSON(context.Background(), http.DefaultClient, srv.URL, nil, nil,
		retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, Multiplier: 2.0})
	require.ErrorIs(t, err, retry.ErrExhausted)
}

func TestPostJSONContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := retry.PostJSON(ctx, srv.Client(), srv.URL, nil, nil,
		retry.Policy{MaxAttempts: 10, BaseDelay: time.Second, Multiplier: 2.0})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
