// Package otp issues and verifies short-lived one-time passwords sent by
// email.
//
// Codes live in a Store keyed by email address, with at most one active
// code per address: issuing a new code overwrites the old one. The store
// interface has in-memory and Redis implementations sharing the same
// semantics, so the backend can be swapped without touching call sites:
//
//	store := otp.NewMemory()            // single process
//	store := otp.NewRedis(client, "")   // shared across instances
//
//	svc := otp.NewService(store, sender,
//	    otp.WithAuditSink(sink),
//	)
//	err := svc.Issue(ctx, "user@example.com")
//	err  = svc.Verify(ctx, "user@example.com", "123456")
//
// Verification is single-use: a successful Verify deletes the record, and
// an expired record is deleted on the failed Verify that discovers it.
// Expired records that are never verified are removed by Sweep, which the
// server schedules on a fixed interval.
package otp
