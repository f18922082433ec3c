// Package mailer defines the email message model shared by all delivery
// paths and the Sender interface that transport adapters implement.
//
// Two adapters ship with the service:
//
//   - mailer/smtp sends through any SMTP relay (gomail)
//   - mailer/resend sends through the Resend API
//
// The package also provides a markdown renderer for system emails such as
// the OTP code message. Templates are markdown files with YAML frontmatter
// wrapped in an HTML layout:
//
//	r := mailer.NewRenderer(templatesFS, mailer.RendererConfig{LayoutDir: "layouts"})
//	result, err := r.Render("base.html", "otp_code.md", data)
//
// Campaign emails bypass the renderer: their HTML body arrives fully formed
// from the caller (or from the AI template endpoint) and is personalized by
// pkg/merge.
package mailer
