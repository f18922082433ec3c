package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intellia-hq/mailroom/internal/handler"
	"github.com/intellia-hq/mailroom/pkg/logger"
	"github.com/intellia-hq/mailroom/pkg/mailer"
	"github.com/intellia-hq/mailroom/pkg/otp"
)

// captureSender records every message handed to the transport.
type captureSender struct {
	mu   sync.Mutex
	sent []*mailer.Email
	fail error // when set, every send fails with it
}

func (c *captureSender) Send(_ context.Context, email *mailer.Email) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.sent = append(c.sent, email)
	return nil
}

func (c *captureSender) messages() []*mailer.Email {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*mailer.Email(nil), c.sent...)
}

type testEnv struct {
	router http.Handler
	bulk   *captureSender
	otp    *captureSender
	store  *otp.Memory
}

func newTestEnv(t *testing.T, opts ...handler.Option) *testEnv {
	t.Helper()

	bulk := &captureSender{}
	otpSender := &captureSender{}
	store := otp.NewMemory()
	t.Cleanup(func() { _ = store.Close() })

	service := otp.NewService(store, otpSender, otp.WithLogger(logger.NewNope()))
	h := handler.New(bulk, service, logger.NewNope(), opts...)

	return &testEnv{router: h.Router(), bulk: bulk, otp: otpSender, store: store}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartBody builds a multipart form with string fields and file parts.
type filePart struct {
	field, name, contentType string
	content                  []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		if f.contentType != "" {
			hdr.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "running")
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "healthy")
}
