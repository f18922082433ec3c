// Package audit records security-relevant events (OTP issuance and
// verification) to an optional sink.
//
// Recording is strictly fire-and-forget: Sink.Record returns nothing, and
// implementations log their own failures. An unavailable or unconfigured
// sink must never fail the operation it is attached to.
package audit

import (
	"context"
	"time"
)

// Event kinds recorded by the OTP flow.
const (
	KindOTPIssued   = "otp.issued"
	KindOTPVerified = "otp.verified"
	KindOTPRejected = "otp.rejected"
)

// Event is a single audit entry.
type Event struct {
	Kind   string
	Email  string
	Detail string
	At     time.Time
}

// Sink is the audit capability. Implementations must be best-effort and
// never panic; errors are handled (logged) internally.
type Sink interface {
	Record(ctx context.Context, e Event)
}

// Noop is the sink used when auditing is not configured.
type Noop struct{}

func (Noop) Record(context.Context, Event) {}

var _ Sink = Noop{}
