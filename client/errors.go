package client

import (
	"github.com/goliatone/go-errors"
)

// Failure kinds. Exactly one of these is attached to every error returned by
// the client.
const (
	TextCodeNetworkError = "NETWORK_ERROR"
	TextCodeServerError  = "SERVER_ERROR"
	TextCodeClientError  = "CLIENT_ERROR"
	TextCodeAuthRejected = "AUTH_REJECTED"
)

// FailureKind returns the classification of err, or "" if err is nil or did
// not originate from this package.
func FailureKind(err error) string {
	if err == nil {
		return ""
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		switch rich.TextCode {
		case TextCodeNetworkError, TextCodeServerError, TextCodeClientError, TextCodeAuthRejected:
			return rich.TextCode
		}
	}
	return ""
}

// IsNetworkError reports whether no response was received
func IsNetworkError(err error) bool {
	return FailureKind(err) == TextCodeNetworkError
}

// IsServerError reports whether the server answered with a 5xx status
func IsServerError(err error) bool {
	return FailureKind(err) == TextCodeServerError
}

// IsClientError reports whether the server answered with a non-auth 4xx status
func IsClientError(err error) bool {
	return FailureKind(err) == TextCodeClientError
}

// IsAuthRejected reports whether the stored credential was rejected
func IsAuthRejected(err error) bool {
	return FailureKind(err) == TextCodeAuthRejected
}

// StatusCode returns the HTTP status carried by a server or client error,
// or 0 when the failure never produced a response.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		if status, ok := rich.Metadata["status"].(int); ok {
			return status
		}
	}
	return 0
}

// ErrorPayload returns the response body attached to a client error
func ErrorPayload(err error) string {
	if err == nil {
		return ""
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		if payload, ok := rich.Metadata["payload"].(string); ok {
			return payload
		}
	}
	return ""
}
