package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned when Open is called without a URL.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")

	// ErrFailedToParseURL is returned for URLs that are not redis:// or
	// rediss://, or that the client library cannot parse.
	ErrFailedToParseURL = errors.New("redis: failed to parse connection URL")

	// ErrConnectionFailed is returned when all connection attempts fail.
	ErrConnectionFailed = errors.New("redis: failed to establish connection")

	// ErrHealthcheckFailed wraps ping failures in the healthcheck closure.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
