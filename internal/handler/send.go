package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/intellia-hq/mailroom/pkg/imaging"
	"github.com/intellia-hq/mailroom/pkg/mailer"
	"github.com/intellia-hq/mailroom/pkg/merge"
	"github.com/intellia-hq/mailroom/pkg/recipient"
)

const (
	maxUploadBytes = 32 << 20

	defaultDelay    = 300 * time.Millisecond
	defaultFromName = "Team Intellia"
)

type sendCSVResponse struct {
	Success bool           `json:"success"`
	Summary *merge.Summary `json:"summary"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// sendCSV runs a full batch send: recipients from the uploaded CSV, inline
// logo/banner images (uploaded files or share links), generic attachments,
// and per-message pacing. The batch runs to completion even if the client
// disconnects, and per-recipient failures land in the summary rather than
// failing the request.
func (h *Handler) sendCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.respondError(w, r, badRequest("Invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	rows, err := h.loadRecipients(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	subject := r.FormValue("subject")
	html := r.FormValue("html")
	if subject == "" {
		h.respondError(w, r, badRequest("Subject is required"))
		return
	}
	if html == "" {
		h.respondError(w, r, badRequest("HTML body is required"))
		return
	}

	logo, err := h.inlineUpload(r, "logoFile", "logo")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	banner, err := h.inlineUpload(r, "bannerFile", "banner")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	attachments, err := h.genericAttachments(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	delay := defaultDelay
	if raw := r.FormValue("delayMs"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
			delay = time.Duration(ms) * time.Millisecond
		}
	}

	fromName := r.FormValue("fromName")
	if fromName == "" {
		fromName = defaultFromName
	}

	params := merge.Params{
		Rows:        rows,
		Subject:     subject,
		HTML:        html,
		From:        h.fromAddress(fromName),
		Logo:        logo,
		Banner:      banner,
		LogoURL:     imaging.ResolveShareURL(r.FormValue("logoUrl")),
		BannerURL:   imaging.ResolveShareURL(r.FormValue("bannerUrl")),
		Attachments: attachments,
		Delay:       delay,
	}

	// A dropped client must not cancel a batch mid-flight.
	summary, err := merge.Run(context.WithoutCancel(r.Context()), h.bulk, params, h.log)
	if err != nil {
		h.respondError(w, r, internalError("Batch send interrupted", err, ""))
		return
	}

	respondJSON(w, http.StatusOK, sendCSVResponse{Success: true, Summary: summary})
}

// sendMails is the plain variant: CSV plus subject and body, no images.
func (h *Handler) sendMails(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.respondError(w, r, badRequest("Invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	rows, err := h.loadRecipients(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	subject := r.FormValue("subject")
	html := r.FormValue("html")
	if subject == "" || html == "" {
		h.respondError(w, r, badRequest("Subject and HTML body are required"))
		return
	}

	params := merge.Params{
		Rows:        rows,
		Subject:     subject,
		HTML:        html,
		Delay:       defaultDelay,
		DefaultName: "User",
	}

	summary, err := merge.Run(context.WithoutCancel(r.Context()), h.bulk, params, h.log)
	if err != nil {
		h.respondError(w, r, internalError("Batch send interrupted", err, ""))
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("Emails sent: %d, failed: %d", summary.Sent, summary.Failed),
	})
}

// loadRecipients parses the csvFile part. Missing file, malformed CSV, and
// an empty recipient list are all validation failures.
func (h *Handler) loadRecipients(r *http.Request) ([]recipient.Row, error) {
	file, _, err := r.FormFile("csvFile")
	if err != nil {
		return nil, badRequest("CSV file is required")
	}
	defer file.Close()

	rows, err := recipient.Load(file)
	if err != nil {
		return nil, badRequest("Failed to parse CSV file")
	}
	if len(rows) == 0 {
		return nil, badRequest("No recipients found in CSV")
	}
	return rows, nil
}

// inlineUpload reads an optional image part and prepares it for cid
// embedding. Returns nil without error when the part is absent.
func (h *Handler) inlineUpload(r *http.Request, field, label string) (*mailer.Attachment, error) {
	content, filename, declared, ok, err := formFile(r, field)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	att, err := imaging.PrepareInline(filename, declared, content, label)
	if err != nil {
		var typeErr *imaging.UnsupportedTypeError
		if errors.As(err, &typeErr) {
			return nil, &HTTPError{
				Code:    http.StatusBadRequest,
				Message: "Unsupported image type",
				Detail:  fmt.Sprintf("%s (%s)", typeErr.Filename, typeErr.MIMEType),
				Err:     err,
			}
		}
		return nil, internalError("Failed to process image upload", err, "")
	}
	return &att, nil
}

// genericAttachments collects the attachments[] parts verbatim.
func (h *Handler) genericAttachments(r *http.Request) ([]mailer.Attachment, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File["attachments"]
	if len(headers) == 0 {
		return nil, nil
	}

	attachments := make([]mailer.Attachment, 0, len(headers))
	for _, fh := range headers {
		content, err := readPart(fh)
		if err != nil {
			return nil, badRequest("Failed to read attachment " + fh.Filename)
		}
		attachments = append(attachments, mailer.Attachment{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return attachments, nil
}

func (h *Handler) fromAddress(name string) string {
	if h.fromEmail == "" {
		return ""
	}
	return mailer.Recipient(name, h.fromEmail)
}

// formFile reads one optional multipart file part into memory.
func formFile(r *http.Request, field string) (content []byte, filename, contentType string, ok bool, err error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", "", false, nil
	}
	if err != nil {
		return nil, "", "", false, badRequest("Failed to read uploaded file")
	}
	defer file.Close()

	content, err = io.ReadAll(file)
	if err != nil {
		return nil, "", "", false, badRequest("Failed to read uploaded file")
	}
	return content, header.Filename, header.Header.Get("Content-Type"), true, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
