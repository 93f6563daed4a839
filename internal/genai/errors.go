package genai

import (
	"fmt"
	"net/http"
)

// ErrorCode categorizes a generation failure
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "invalid_request"
	ErrConfiguration       ErrorCode = "configuration"
	ErrUpstreamAuth        ErrorCode = "upstream_auth"
	ErrUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrMalformedResponse   ErrorCode = "malformed_upstream_response"
)

// Error is the typed error surfaced by the generation facade. HTTPStatus is
// the status the HTTP layer should answer with; no transport detail or
// upstream URL ever leaks through Message.
type Error struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Retryable  bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest reports bad caller input (400, never retried)
func NewInvalidRequest(msg string) *Error {
	return &Error{Code: ErrInvalidRequest, Message: msg, HTTPStatus: http.StatusBadRequest}
}

// NewConfigurationError reports a missing or unusable credential (500)
func NewConfigurationError(msg string) *Error {
	return &Error{Code: ErrConfiguration, Message: msg, HTTPStatus: http.StatusInternalServerError}
}

// NewUpstreamAuthError reports a credential rejected by the upstream. It is
// terminal within orchestration: candidates sharing the key cannot succeed.
func NewUpstreamAuthError(msg string) *Error {
	return &Error{Code: ErrUpstreamAuth, Message: msg, HTTPStatus: http.StatusBadGateway}
}

// NewUpstreamUnavailable reports total upstream failure after all candidates
// were exhausted (502).
func NewUpstreamUnavailable(msg string) *Error {
	return &Error{Code: ErrUpstreamUnavailable, Message: msg, HTTPStatus: http.StatusBadGateway, Retryable: true}
}

// NewMalformedResponse reports an upstream success payload that does not
// match the expected shape.
func NewMalformedResponse(msg string) *Error {
	return &Error{Code: ErrMalformedResponse, Message: msg, HTTPStatus: http.StatusBadGateway}
}
