// Package upstream is the typed HTTP client for the user, course, module and
// post services. It never retries. Every outbound call is bounded by a
// timeout and every failure is returned as an *Error carrying a Kind.
package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an upstream failure. Kinds are comparable sentinel errors,
// so callers branch with errors.Is(err, upstream.ErrConflict).
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	// ErrTransport: network or DNS failure, or the caller cancelled.
	ErrTransport Kind = "transport error"
	// ErrTimeout: the per-call deadline elapsed before a response arrived.
	ErrTimeout Kind = "upstream timeout"
	// ErrUnauthorized: missing, expired or rejected credentials.
	ErrUnauthorized Kind = "unauthorized"
	// ErrNotFound: the addressed resource does not exist.
	ErrNotFound Kind = "not found"
	// ErrConflict: the service reports the asserted state already holds.
	ErrConflict Kind = "conflict"
	// ErrRejected: any other 4xx; the service refused the input.
	ErrRejected Kind = "rejected"
	// ErrServer: 5xx, or a 2xx body that could not be decoded.
	ErrServer Kind = "upstream server error"
)

// Error is the failure value returned by every Client call.
type Error struct {
	Kind    Kind
	Service Service
	Method  string
	Path    string
	Status  int    // 0 when no response was received
	Detail  string // parsed from the error body when available
	Err     error  // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s: %s", e.Service, e.Method, e.Path, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the Kind sentinels.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Message is the text a caller should show a user: the service's detail
// when it sent one, the kind otherwise.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return string(e.Kind)
}

// KindOf returns the Kind of err, or "" if err did not come from this package.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Status
	}
	return 0
}

// conflictPhrases are the detail texts the services use to report that an
// enrollment or like already is (or already is not) in place. Some services
// send these with 400 instead of 409.
var conflictPhrases = []string{
	"already enrolled",
	"not enrolled",
	"already liked",
	"already exists",
}

// classify maps a non-2xx status and its detail text to a Kind.
func classify(status int, detail string) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 500:
		return ErrServer
	case status == http.StatusBadRequest && isConflictDetail(detail):
		return ErrConflict
	case status >= 400:
		return ErrRejected
	}
	return ErrServer
}

func isConflictDetail(detail string) bool {
	d := strings.ToLower(detail)
	for _, p := range conflictPhrases {
		if strings.Contains(d, p) {
			return true
		}
	}
	return false
}

// parseDetail extracts a human-readable message from the error bodies the
// services produce: {"detail": "..."}, {"detail": {"msg": "..."}},
// {"detail": [{"msg": "..."}]}, {"message": "..."} or {"error": "..."}.
func parseDetail(body []byte) string {
	var env struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if len(env.Detail) > 0 {
		var s string
		if json.Unmarshal(env.Detail, &s) == nil && s != "" {
			return s
		}
		var obj struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(env.Detail, &obj) == nil && obj.Msg != "" {
			return obj.Msg
		}
		var list []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(env.Detail, &list) == nil && len(list) > 0 && list[0].Msg != "" {
			return list[0].Msg
		}
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}
