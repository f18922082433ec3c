package otp

import "errors"

var (
	// ErrNotFound is returned when no code is on record for the address.
	ErrNotFound = errors.New("otp: no code found for this email")

	// ErrExpired is returned when the code on record has passed its expiry.
	// The record is deleted as a side effect.
	ErrExpired = errors.New("otp: code expired")

	// ErrMismatch is returned when the submitted code differs from the one
	// on record. The record is kept so the user can retry.
	ErrMismatch = errors.New("otp: code mismatch")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("otp: store closed")
)
