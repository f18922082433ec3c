package mailer

import "context"

// Sender is the minimal interface a transport adapter implements.
// The Email must have To, Subject, and HTML set before Send is called.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a plain function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email) error

func (f SenderFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
