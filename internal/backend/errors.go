package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrMissingInput means a required image, mask or prompt was absent.
	// Nothing was sent.
	ErrMissingInput = errors.New("missing input")
	// ErrInvalidParams means a numeric parameter was out of range. Nothing
	// was sent.
	ErrInvalidParams = errors.New("invalid parameters")
	// ErrTransport covers network failures, non-2xx responses and payloads
	// that could not be decoded.
	ErrTransport = errors.New("transport failure")
)

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is makes a StatusError match ErrTransport.
func (e *StatusError) Is(target error) bool { return target == ErrTransport }

// statusError reads the detail field from a FastAPI style error body. Detail
// is usually a string; validation failures send a list, which is kept as
// compact JSON.
func statusError(code int, body []byte) *StatusError {
	e := &StatusError{StatusCode: code}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return e
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		e.Detail = strings.TrimSpace(s)
		return e
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload.Detail); err == nil && buf.String() != "null" {
		e.Detail = buf.String()
	}
	return e
}

func transportErr(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
