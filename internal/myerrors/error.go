package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError is a client-side rejection that never reached the agency,
// such as a malformed CLI argument.
type RequestError struct {
	Message string
}

func (r *RequestError) Error() string {
	return r.Message
}

// TransportError covers network failures, unexpected statuses and bodies
// that could not be decoded. Detail is set when the agency answered with an
// unexpected status but still explained itself.
type TransportError struct {
	Op     string
	Err    error
	Detail string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError is a field rejection reported by the agency. Field is set
// only when the agency tagged the error with the offending field. Detail stays
// empty when the agency sent no explanation.
type ValidationError struct {
	StatusCode int
	Detail     string
	Field      string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// NotFoundError is returned for operations on an id the agency does not know.
type NotFoundError struct {
	Resource string
	Id       int64
	Detail   string
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.Id)
}

// Detail returns the human-readable message the agency attached to err, or
// "" when there is none.
func Detail(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Detail
	}
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return notFoundErr.Detail
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Detail
	}
	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		return requestErr.Message
	}
	return ""
}

// DetailOr returns Detail(err), or fallback when the agency sent nothing.
func DetailOr(err error, fallback string) string {
	if detail := Detail(err); detail != "" {
		return detail
	}
	return fallback
}
