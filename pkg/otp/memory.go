package otp

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store backed by a mutex-guarded map.
type Memory struct {
	records map[string]Record
	mu      sync.Mutex
	closed  bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

// Put stores a record, overwriting any existing one for the address.
func (m *Memory) Put(_ context.Context, email string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.records[email] = rec
	return nil
}

// Get returns the record for the address, expired or not.
func (m *Memory) Get(_ context.Context, email string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[email]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Delete removes the record for the address. Deleting an absent record is
// not an error.
func (m *Memory) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	delete(m.records, email)
	return nil
}

// Sweep removes every expired record.
func (m *Memory) Sweep(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	now := time.Now()
	for email, rec := range m.records {
		if rec.Expired(now) {
			delete(m.records, email)
		}
	}
	return nil
}

// Close marks the store closed. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var _ Store = (*Memory)(nil)
