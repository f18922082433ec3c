package imaging

import (
	"net/url"
	"strings"
)

// shareHosts are cloud-drive hostnames whose share links we know how to
// rewrite into direct-view form.
var shareHosts = map[string]struct{}{
	"drive.google.com": {},
	"docs.google.com":  {},
}

const directViewURL = "https://drive.google.com/uc?export=view&id="

// ResolveShareURL rewrites a recognized cloud-drive share link into its
// direct-view URL. The file identifier is accepted in any of the known
// shapes: a "/file/d/<id>/" path, a bare "/d/<id>" path, or an "?id=<id>"
// query parameter. Unrecognized hosts, malformed URLs, and links without an
// identifier are returned unchanged; this is best-effort and never fails.
func ResolveShareURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if _, ok := shareHosts[strings.ToLower(u.Hostname())]; !ok {
		return raw
	}

	if id := fileIDFromPath(u.Path); id != "" {
		return directViewURL + id
	}
	if id := u.Query().Get("id"); id != "" {
		return directViewURL + id
	}

	return raw
}

// fileIDFromPath extracts the identifier following a "d" path segment, as in
// /file/d/<id>/view or /d/<id>.
func fileIDFromPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if seg == "d" && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1]
		}
	}
	return ""
}
