package transport

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure. Every failure leaving the pipeline is
// a *Error carrying exactly one Kind, so callers have a single shape to
// inspect regardless of failure origin.
type Kind string

const (
	// KindTokenExpired is raised locally before a request is sent, when the
	// cached credential is inside its expiry buffer.
	KindTokenExpired Kind = "token_expired"
	// KindTimeout is raised when the hard per-request timeout elapses.
	KindTimeout Kind = "timeout"
	// KindUnauthorized is the server's authoritative 401 rejection. It
	// always forces invalidation, regardless of local clock skew.
	KindUnauthorized Kind = "unauthorized"
	// KindValidation covers 4xx failures carrying a server message.
	KindValidation Kind = "validation"
	// KindServer covers 5xx and network-level failures.
	KindServer Kind = "server"
	// KindMalformedResponse covers responses that violate the expected
	// JSON or binary shape.
	KindMalformedResponse Kind = "malformed_response"
)

// Error is the normalized failure shape produced by the pipeline.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// IsKind reports whether err is (or wraps) a pipeline Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}

// envelope is the failure body shape the school API sends. Not every field
// is present on every endpoint.
type envelope struct {
	Success *bool    `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
	Err     string   `json:"error"`
}

// serverMessage extracts the best available message from a failure body:
// the message field, else the first entry of the error list, else the error
// field, else fallback.
func serverMessage(body []byte, fallback string) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fallback
	}
	switch {
	case env.Message != "":
		return env.Message
	case len(env.Errors) > 0:
		return env.Errors[0]
	case env.Err != "":
		return env.Err
	}
	return fallback
}

// sniffError reports whether a JSON body is actually a structured failure
// (it carries a message, an error list, or success:false) and returns the
// extracted message.
func sniffError(body []byte) (string, bool) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false
	}
	if env.Message != "" || len(env.Errors) > 0 || env.Err != "" {
		return serverMessage(body, ""), true
	}
	if env.Success != nil && !*env.Success {
		return serverMessage(body, "request failed"), true
	}
	return "", false
}
