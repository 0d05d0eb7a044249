package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated: no token, or the remote authority rejected it.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials: the token endpoint rejected the login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden: authenticated, but wrong role or identity for the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation: the request input was rejected.
	ErrValidation = errors.New("validation failure")
	ErrNotFound   = errors.New("not found")
	// ErrUnavailable covers transport errors, timeouts, 5xx responses and
	// bodies of an unexpected shape.
	ErrUnavailable = errors.New("server unavailable")
)

// APIError is a non-2xx answer from the remote authority. It unwraps to one
// of the sentinel errors above.
type APIError struct {
	StatusCode int
	Detail     string
	Kind       error
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.StatusCode, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// Detail returns the remote-supplied message carried by err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

func kindForStatus(status int, tokenEndpoint bool) error {
	switch {
	case status == http.StatusUnauthorized && tokenEndpoint:
		return ErrInvalidCredentials
	case status == http.StatusUnauthorized:
		return ErrUnauthenticated
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= http.StatusInternalServerError:
		return ErrUnavailable
	case status >= http.StatusBadRequest:
		return ErrValidation
	default:
		return ErrUnavailable
	}
}

func newAPIError(status int, body []byte, tokenEndpoint bool) *APIError {
	return &APIError{
		StatusCode: status,
		Detail:     parseDetail(body),
		Kind:       kindForStatus(status, tokenEndpoint),
	}
}

// parseDetail understands both {"detail": "msg"} and the validation form
// {"detail": [{"msg": "..."}, ...]}.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
