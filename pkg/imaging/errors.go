package imaging

import (
	"errors"
	"fmt"
)

// ErrUnsupportedImageType indicates an upload that is neither an email-safe
// raster format nor transcodable to one.
var ErrUnsupportedImageType = errors.New("imaging: unsupported image type")

// UnsupportedTypeError carries the offending filename and detected MIME type
// so handlers can surface them in the 400 response.
type UnsupportedTypeError struct {
	Filename string
	MIMEType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("imaging: unsupported image type %q for file %q", e.MIMEType, e.Filename)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedImageType
}
