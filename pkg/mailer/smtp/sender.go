// Package smtp implements mailer.Sender over an SMTP relay.
package smtp

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/intellia-hq/mailroom/pkg/mailer"
)

// Sender delivers email through an SMTP relay using gomail.
type Sender struct {
	dialer *gomail.Dialer
	config Config
}

// New creates an SMTP sender from the given credentials.
func New(cfg Config) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		config: cfg,
	}
}

// Send implements mailer.Sender. gomail has no context support, so
// cancellation is only observed between messages, which matches the
// per-message granularity of the send loop.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.ReplyTo != "" {
		m.SetHeader("Reply-To", email.ReplyTo)
	}
	for k, v := range email.Headers {
		m.SetHeader(k, v)
	}

	if email.Text != "" {
		m.SetBody("text/plain", email.Text)
		m.AddAlternative("text/html", email.HTML)
	} else {
		m.SetBody("text/html", email.HTML)
	}

	for _, a := range email.Attachments {
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(copyFunc(a.Content)),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		}
		if a.Inline() {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-ID": {"<" + a.ContentID + ">"},
			}))
			m.Embed(a.Filename, settings...)
		} else {
			m.Attach(a.Filename, settings...)
		}
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: send to %v: %w", email.To, err)
	}

	return nil
}

func copyFunc(content []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}
}

var _ mailer.Sender = (*Sender)(nil)
