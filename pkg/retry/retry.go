// Package retry provides the single retry policy used for outbound HTTP
// dependencies: exponential backoff on transient failures, immediate
// surfacing of permanent ones.
//
// A failure is transient when it is a network-level error or an HTTP 429 or
// 5xx response; any other non-2xx status is permanent and returns
// immediately with the response body as detail.
package retry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy parameterizes the backoff schedule.
type Policy struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay before the second attempt
	Multiplier  float64       // growth factor between attempts
}

// DefaultPolicy is the schedule used for all AI calls: up to 5 attempts,
// starting at 1s and doubling.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 5, BaseDelay: time.Second, Multiplier: 2.0}
}

// ErrExhausted wraps the last attempt's error once the schedule runs out.
var ErrExhausted = errors.New("retry: attempts exhausted")

// StatusError is an HTTP response outside the 2xx range, carrying the
// response body for error detail extraction.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("retry: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status indicates a transient condition.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// PostJSON sends a JSON payload and returns the response body, retrying per
// the policy. The payload is marshalled once; each attempt sends a fresh
// request. Context cancellation stops the schedule between attempts.
func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any, p Policy) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("retry: marshal payload: %w", err)
	}

	attempt := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			// Network-level failure: retryable.
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: data}
		if statusErr.Retryable() {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.BaseDelay
	bo.Multiplier = p.Multiplier
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0 // attempts are bounded by count, not wall clock

	maxRetries := uint64(0)
	if p.MaxAttempts > 1 {
		maxRetries = uint64(p.MaxAttempts - 1)
	}

	data, err := backoff.RetryWithData(attempt, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			// Permanent upstream rejection: no retries were attempted.
			return nil, err
		}
		return nil, errors.Join(ErrExhausted, err)
	}

	return data, nil
}
