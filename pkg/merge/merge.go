// Package merge runs the bulk send loop: one personalized email per
// recipient row, in CSV order, with inline image handling, pacing between
// messages, and per-recipient outcome tracking.
//
// A single recipient's failure never aborts the batch; failures are
// recorded in the Summary and the loop moves on. Only context cancellation
// stops a batch early, returning the partial summary alongside the context
// error.
package merge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/intellia-hq/mailroom/pkg/mailer"
	"github.com/intellia-hq/mailroom/pkg/recipient"
)

// NameToken is the literal placeholder replaced with each recipient's name.
const NameToken = "[Name]"

// Params describes one batch send.
type Params struct {
	Rows    []recipient.Row
	Subject string
	HTML    string // body template containing NameToken placeholders

	// From overrides the transport's default sender when non-empty,
	// formatted per mailer.Recipient.
	From string

	// Uploaded inline images, embedded by content-id. Nil when the caller
	// supplied external URLs (or nothing) instead.
	Logo   *mailer.Attachment
	Banner *mailer.Attachment

	// External image URLs, used when no uploaded counterpart exists.
	LogoURL   string
	BannerURL string

	// Regular download attachments, cloned per message.
	Attachments []mailer.Attachment

	// Delay between consecutive messages; 0 disables pacing.
	Delay time.Duration

	// DefaultName substitutes NameToken for rows without a name column.
	DefaultName string
}

// Failure records one recipient the transport rejected.
type Failure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// Summary is the batch outcome. Sent+Failed equals the number of rows with
// a resolvable email; rows without one are skipped and counted nowhere.
type Summary struct {
	Sent     int       `json:"sent"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures"`
	Details  []string  `json:"details"`
}

// Run executes the batch against the given transport. The returned error is
// non-nil only when the context was canceled mid-batch; transport failures
// live in the Summary.
func Run(ctx context.Context, sender mailer.Sender, p Params, log *slog.Logger) (*Summary, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	summary := &Summary{
		Failures: []Failure{},
		Details:  []string{},
	}

	for i, row := range p.Rows {
		email := row.Email()
		if email == "" {
			// Not an error and not a failure: the row is simply not actionable.
			continue
		}

		name := row.Name()
		if name == "" {
			name = p.DefaultName
		}

		msg := p.buildMessage(email, name)
		if err := sender.Send(ctx, msg); err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Email: email, Error: err.Error()})
			summary.Details = append(summary.Details, fmt.Sprintf("failed for %s: %s", email, err))
			log.WarnContext(ctx, "recipient delivery failed",
				slog.String("email", email),
				slog.String("error", err.Error()),
			)
		} else {
			summary.Sent++
			summary.Details = append(summary.Details, "delivered to "+email)
		}

		if p.Delay > 0 && i < len(p.Rows)-1 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}

	return summary, nil
}

// buildMessage assembles one personalized message. Shared attachment
// buffers are cloned so the transport cannot mutate state across
// recipients.
func (p Params) buildMessage(email, name string) *mailer.Email {
	body := strings.ReplaceAll(p.HTML, NameToken, name)
	body = wrapBody(body, imageRef(p.Logo, p.LogoURL), imageRef(p.Banner, p.BannerURL))

	msg := &mailer.Email{
		To:      []string{email},
		Subject: p.Subject,
		HTML:    body,
		From:    p.From,
	}

	if p.Logo != nil {
		msg.Attachments = append(msg.Attachments, p.Logo.Clone())
	}
	if p.Banner != nil {
		msg.Attachments = append(msg.Attachments, p.Banner.Clone())
	}
	for _, a := range p.Attachments {
		msg.Attachments = append(msg.Attachments, a.Clone())
	}

	return msg
}

// imageRef resolves how the body references an image: by content-id for an
// uploaded file, by URL for an external one, or not at all.
func imageRef(att *mailer.Attachment, url string) string {
	if att != nil {
		return "cid:" + att.ContentID
	}
	return url
}

// wrapBody places the logo above and the banner below the personalized
// content. Image blocks without a reference are omitted entirely.
func wrapBody(content, logoRef, bannerRef string) string {
	if logoRef == "" && bannerRef == "" {
		return content
	}

	var b strings.Builder
	if logoRef != "" {
		b.WriteString(`<div style="text-align:center;padding-bottom:16px;"><img src="`)
		b.WriteString(logoRef)
		b.WriteString(`" alt="Logo" style="max-width:200px;height:auto;"></div>`)
	}
	b.WriteString(content)
	if bannerRef != "" {
		b.WriteString(`<div style="text-align:center;padding-top:16px;"><img src="`)
		b.WriteString(bannerRef)
		b.WriteString(`" alt="Banner" style="max-width:100%;height:auto;"></div>`)
	}
	return b.String()
}
