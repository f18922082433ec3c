package mailer

import "fmt"

// Email represents a fully-prepared message ready for delivery.
type Email struct {
	Headers     map[string]string // Custom headers
	Subject     string            // Subject line
	HTML        string            // HTML body
	Text        string            // Plain text alternative
	From        string            // Override the adapter's default sender
	ReplyTo     string            // Reply-to address
	To          []string          // Recipients (at least one required)
	Attachments []Attachment      // Attached and inline files
}

// Attachment represents a file carried by a message. An attachment with a
// ContentID is embedded inline and referenced from the HTML body as
// "cid:<ContentID>"; without one it is a regular download attachment.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Content     []byte
}

// Inline reports whether the attachment is referenced from the body by
// content-id rather than offered as a download.
func (a Attachment) Inline() bool {
	return a.ContentID != ""
}

// Clone returns a copy of the attachment with its own content buffer.
// Transport adapters may mutate buffers during encoding, so every message
// in a batch must carry its own copy.
func (a Attachment) Clone() Attachment {
	c := a
	c.Content = make([]byte, len(a.Content))
	copy(c.Content, a.Content)
	return c
}

// Recipient formats a display name and address into RFC 5322 form.
// Returns "Name <email>" when a name is given, otherwise just the address.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
