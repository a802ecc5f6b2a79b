package cypher

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ErrMissingField is wrapped by a ShapeError when a response lacks a field.
var ErrMissingField = errors.New("missing field")

// HTTPError is returned when the service answers with a non-2xx status.
type HTTPError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Status     string
	// Body is the raw response body, kept for diagnostics.
	Body []byte
	// Message is the "error" field of a JSON error body, if there was one.
	Message string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("cypher: %s: %s %s: %s", e.Op, e.Method, e.URL, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func newHTTPError(op, method, url string, statusCode int, status string, body []byte) *HTTPError {
	e := &HTTPError{
		Op:         op,
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Status:     status,
		Body:       body,
	}
	var errBody struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errBody) == nil {
		e.Message = errBody.Error
	}
	return e
}

// IsHTTPError reports whether err is, or wraps, an *HTTPError.
func IsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// ShapeError is returned when a successful response body can not be
// decoded or lacks an expected field.
type ShapeError struct {
	Op    string
	Field string
	Err   error
}

func (e *ShapeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("cypher: %s: field %q: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("cypher: %s: %v", e.Op, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

func missingField(op, field string) *ShapeError {
	return &ShapeError{Op: op, Field: field, Err: ErrMissingField}
}
