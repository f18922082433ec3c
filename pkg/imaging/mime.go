package imaging

import (
	"net/http"
	"path/filepath"
	"strings"
)

// emailSafeTypes are raster formats every mainstream email client renders.
// Anything else must be transcoded before embedding.
var emailSafeTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
}

// extensionTypes maps file extensions to MIME types for the formats this
// package understands.
var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
}

// detectType resolves an upload's MIME type: extension lookup first, then
// the declared content type from the upload, then magic-byte sniffing.
func detectType(filename, declared string, content []byte) string {
	if mt, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mt
	}
	if mt := normalizeMIME(declared); mt != "" && mt != "application/octet-stream" {
		return mt
	}
	return http.DetectContentType(content)
}

// normalizeMIME strips parameters like charset and lowercases the type.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

func isEmailSafe(mimeType string) bool {
	_, ok := emailSafeTypes[normalizeMIME(mimeType)]
	return ok
}
