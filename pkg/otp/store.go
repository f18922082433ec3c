package otp

import (
	"context"
	"time"
)

// Record is an issued code and its expiry.
type Record struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record has passed its expiry at the given time.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Store holds at most one live code per email address.
//
// Get returns the record even when it has expired: distinguishing
// "expired" from "not found" is the Service's job, and it needs the record
// to do so. Sweep removes every record whose expiry has passed; backends
// with server-side expiry may implement it as a no-op.
type Store interface {
	Put(ctx context.Context, email string, rec Record) error
	Get(ctx context.Context, email string) (Record, error)
	Delete(ctx context.Context, email string) error
	Sweep(ctx context.Context) error
	Close() error
}
