package otp_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intellia-hq/mailroom/pkg/audit"
	"github.com/intellia-hq/mailroom/pkg/mailer"
	"github.com/intellia-hq/mailroom/pkg/otp"
)

// captureSender records every email it is asked to deliver.
type captureSender struct {
	mu     sync.Mutex
	emails []*mailer.Email
	err    error
}

func (c *captureSender) Send(_ context.Context, email *mailer.Email) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.emails = append(c.emails, email)
	return nil
}

func (c *captureSender) last(t *testing.T) *mailer.Email {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.emails)
	return c.emails[len(c.emails)-1]
}

// captureSink records audit events.
type captureSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (c *captureSink) Record(_ context.Context, e audit.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureSink) kinds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]string, len(c.events))
	for i, e := range c.events {
		kinds[i] = e.Kind
	}
	return kinds
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func TestServiceIssueSendsCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := otp.NewMemory()
	sender := &captureSender{}
	sink := &captureSink{}
	svc := otp.NewService(store, sender, otp.WithAuditSink(sink))

	require.NoError(t, svc.Issue(ctx, "u@x.com"))

	msg := sender.last(t)
	require.Equal(t, []string{"u@x.com"}, msg.To)
	require.Equal(t, "Your verification code", msg.Subject)

	code := codePattern.FindString(msg.HTML)
	require.NotEmpty(t, code, "mail body must contain the 6-digit code")

	rec, err := store.Get(ctx, "u@x.com")
	require.NoError(t, err)
	require.Equal(t, code, rec.Code)

	require.Equal(t, []string{audit.KindOTPIssued}, sink.kinds())
}

func TestServiceIssueOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := otp.NewMemory()
	sender := &captureSender{}
	svc := otp.NewService(store, sender)

	require.NoError(t, svc.Issue(ctx, "u@x.com"))
	first, err := store.Get(ctx, "u@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.Issue(ctx, "u@x.com"))
	second, err := store.Get(ctx, "u@x.com")
	require.NoError(t, err)

	// At most one live record per address: the first code is gone.
	require.ErrorIs(t, svc.Verify(ctx, "u@x.com", first.Code), otp.ErrMismatch)
	require.NoError(t, svc.Verify(ctx, "u@x.com", second.Code))
}

func TestServiceVerifySingleUse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := otp.NewMemory()
	sender := &captureSender{}
	sink := &captureSink{}
	svc := otp.NewService(store, sender, otp.WithAuditSink(sink))

	require.NoError(t, svc.Issue(ctx, "u@x.com"))
	rec, err := store.Get(ctx, "u@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, "u@x.com", rec.Code))

	// Replaying the same code after success reports not-found.
	require.ErrorIs(t, svc.Verify(ctx, "u@x.com", rec.Code), otp.ErrNotFound)

	require.Contains(t, sink.kinds(), audit.KindOTPVerified)
}

func TestServiceVerifyMismatchKeepsRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := otp.NewMemory()
	svc := otp.NewService(store, &captureSender{})

	require.NoError(t, svc.Issue(ctx, "u@x.com"))
	rec, err := store.Get(ctx, "u@x.com")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Verify(ctx, "u@x.com", "000000"), otp.ErrMismatch)

	// The record survives a mismatch; the right code still works.
	require.NoError(t, svc.Verify(ctx, "u@x.com", rec.Code))
}

func TestServiceVerifyExpiredDeletesRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := otp.NewMemory()
	svc := otp.NewService(store, &captureSender{}, otp.WithTTL(time.Nanosecond))

	require.NoError(t, svc.Issue(ctx, "u@x.com"))
	time.Sleep(10 * time.Millisecond)

	require.ErrorIs(t, svc.Verify(ctx, "u@x.com", "whatever"), otp.ErrExpired)

	// Expiry detection cleared the record even without a sweep.
	require.ErrorIs(t, svc.Verify(ctx, "u@x.com", "whatever"), otp.ErrNotFound)
}

func TestServiceVerifyUnknownEmail(t *testing.T) {
	t.Parallel()

	svc := otp.NewService(otp.NewMemory(), &captureSender{})
	require.ErrorIs(t, svc.Verify(context.Background(), "nobody@x.com", "123456"), otp.ErrNotFound)
}

func TestServiceIssueSendFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sender := &captureSender{err: mailer.ErrSendFailed}
	svc := otp.NewService(otp.NewMemory(), sender)

	require.ErrorIs(t, svc.Issue(ctx, "u@x.com"), mailer.ErrSendFailed)
}

func TestServiceSweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := otp.NewMemory()
	svc := otp.NewService(store, &captureSender{}, otp.WithTTL(time.Nanosecond))

	require.NoError(t, svc.Issue(ctx, "u@x.com"))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, svc.Sweep(ctx))

	require.ErrorIs(t, svc.Verify(ctx, "u@x.com", "123456"), otp.ErrNotFound)
}
