package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/google/uuid"

	"github.com/intellia-hq/mailroom/pkg/mailer"

	// Decoders for formats that get transcoded to PNG.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PrepareInline builds an inline mail attachment from an uploaded image.
// Email-safe formats pass through untouched; webp, bmp, and tiff are
// transcoded to PNG. The content-id is the label plus a random UUID, so ids
// never collide across concurrent requests. The label ("logo", "banner")
// also names the attachment in the message.
func PrepareInline(filename, declaredType string, content []byte, label string) (mailer.Attachment, error) {
	mimeType := detectType(filename, declaredType, content)

	att := mailer.Attachment{
		Filename:    filename,
		ContentType: normalizeMIME(mimeType),
		ContentID:   label + "-" + uuid.NewString(),
		Content:     content,
	}

	if isEmailSafe(mimeType) {
		return att, nil
	}

	transcoded, err := transcodePNG(content)
	if err != nil {
		return mailer.Attachment{}, &UnsupportedTypeError{Filename: filename, MIMEType: normalizeMIME(mimeType)}
	}

	att.Content = transcoded
	att.ContentType = "image/png"
	att.Filename = replaceExt(filename, ".png")
	return att, nil
}

// transcodePNG decodes content with any registered decoder and re-encodes
// it as PNG.
func transcodePNG(content []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imaging: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func replaceExt(filename, ext string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		return filename[:i] + ext
	}
	return filename + ext
}
