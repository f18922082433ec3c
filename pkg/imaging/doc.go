// Package imaging prepares images for embedding in email.
//
// It has two jobs. ResolveShareURL rewrites recognized cloud-drive share
// links into direct-view URLs so email clients can fetch them; anything it
// does not recognize passes through unchanged. PrepareInline turns an
// uploaded file into an inline mail attachment: email-safe raster formats
// (png, jpeg, gif) are used as-is, other decodable formats are transcoded
// to PNG, and everything else fails with ErrUnsupportedImageType so the
// caller can reject the upload instead of sending a broken message.
package imaging
