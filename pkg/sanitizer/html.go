// Package sanitizer provides the HTML policy applied to AI-generated email
// templates before they are returned to callers or sent.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPolicy *bluemonday.Policy
	initOnce    sync.Once
)

// Email markup is table-based and style-heavy, so the policy is far more
// permissive than a UGC policy. Scripts, event handlers, and javascript:
// URLs are still stripped.
func initPolicy() {
	initOnce.Do(func() {
		p := bluemonday.NewPolicy()

		p.AllowElements(
			"html", "head", "body", "title", "style",
			"table", "thead", "tbody", "tfoot", "tr", "td", "th",
			"div", "span", "p", "br", "hr", "center",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "b", "em", "i", "u", "small",
			"ul", "ol", "li", "blockquote", "pre", "code",
			"a", "img",
		)

		p.AllowAttrs("style", "width", "height", "align", "valign",
			"bgcolor", "border", "cellpadding", "cellspacing", "role").Globally()

		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("src", "alt").OnElements("img")

		// cid: lets sanitized bodies keep references to inline attachments.
		p.AllowURLSchemes("http", "https", "cid", "mailto")
		p.RequireParseableURLs(true)

		emailPolicy = p
	})
}

// SanitizeEmailHTML strips dangerous markup from an email body while
// preserving the table layout, inline styles, and cid: image references
// email templates depend on.
func SanitizeEmailHTML(s string) string {
	initPolicy()
	return emailPolicy.Sanitize(s)
}
