package genai

import "errors"

var (
	// ErrEmptyContent is returned when a request carries no content.
	ErrEmptyContent = errors.New("genai: content is required")
	// ErrGeneration is returned when the upstream call fails.
	ErrGeneration = errors.New("genai: generation failed")
	// ErrEmptyResponse is returned when the model returns no usable text.
	ErrEmptyResponse = errors.New("genai: model returned no content")
)
