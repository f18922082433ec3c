package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intellia-hq/mailroom/pkg/sanitizer"
)

func TestSanitizeEmailHTMLStripsScripts(t *testing.T) {
	t.Parallel()

	out := sanitizer.SanitizeEmailHTML(`<p>hello</p><script>alert(1)</script>`)
	require.Contains(t, out, "<p>hello</p>")
	require.NotContains(t, out, "script")
	require.NotContains(t, out, "alert")
}

func TestSanitizeEmailHTMLStripsEventHandlers(t *testing.T) {
	t.Parallel()

	out := sanitizer.SanitizeEmailHTML(`<img src="https://x.com/a.png" onerror="alert(1)" alt="a">`)
	require.Contains(t, out, `src="https://x.com/a.png"`)
	require.NotContains(t, out, "onerror")
}

func TestSanitizeEmailHTMLKeepsEmailMarkup(t *testing.T) {
	t.Parallel()

	in := `<table width="600" cellpadding="0"><tr><td style="color:#333;">Hi [Name]</td></tr></table>`
	out := sanitizer.SanitizeEmailHTML(in)
	require.Contains(t, out, `<table width="600" cellpadding="0">`)
	require.Contains(t, out, `style="color:#333;"`)
	require.Contains(t, out, "Hi [Name]")
}

func TestSanitizeEmailHTMLKeepsCIDReferences(t *testing.T) {
	t.Parallel()

	out := sanitizer.SanitizeEmailHTML(`<img src="cid:logo-123" alt="Logo">`)
	require.Contains(t, out, `src="cid:logo-123"`)
}

func TestSanitizeEmailHTMLStripsJavascriptURLs(t *testing.T) {
	t.Parallel()

	out := sanitizer.SanitizeEmailHTML(`<a href="javascript:alert(1)">click</a>`)
	require.NotContains(t, out, "javascript:")
}
