package handler

import "net/http"

// HTTPError carries a status code and the user-facing message and detail
// rendered into the JSON error body. Err is kept for logging only.
type HTTPError struct {
	Err     error
	Message string
	Detail  string
	Code    int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func badRequest(message string) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Message: message}
}

func internalError(message string, err error, detail string) *HTTPError {
	return &HTTPError{Code: http.StatusInternalServerError, Message: message, Err: err, Detail: detail}
}
