package errors

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind tags an Error with the step or category that produced it.
type Kind string

const (
	KindValidation                 Kind = "validation"
	KindPresignedAcquisitionFailed Kind = "presigned_acquisition_failed"
	KindTransferFailed             Kind = "transfer_failed"
	KindSubmissionFailed           Kind = "submission_failed"
	KindMalformedResponse          Kind = "malformed_response"
	KindPollFailed                 Kind = "poll_failed"
	KindNotificationFailed         Kind = "notification_failed"
	KindTimedOut                   Kind = "timed_out"
	KindUnavailable                Kind = "unavailable"
	KindNotFound                   Kind = "not_found"
	KindInternal                   Kind = "internal"
)

// maxBodyLen caps the upstream body echoed back in an Error.
const maxBodyLen = 2048

type Error struct {
	Kind    Kind   `json:"kind"`
	Op      string `json:"-"`
	Message string `json:"error"`

	// StatusCode is the upstream HTTP status, zero when no response was received.
	StatusCode int               `json:"status,omitempty"`
	Body       string            `json:"body,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Err        error             `json:"-"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d", e.StatusCode)
		if e.Body != "" {
			fmt.Fprintf(&b, ": %s", e.Body)
		}
		b.WriteString(")")
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(parts, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an Error of the given kind. A context deadline in err turns the
// kind into KindTimedOut so callers can tell expiry apart from a failed step.
func E(kind Kind, op string, err error, message string) *Error {
	if err != nil && kind != KindValidation && pkgerrors.Is(err, context.DeadlineExceeded) {
		kind = KindTimedOut
	}
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Upstream records a non-success response from a remote collaborator.
func Upstream(kind Kind, op string, status int, body string, message string) *Error {
	body = strings.TrimSpace(body)
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen] + "..."
	}
	return &Error{
		Kind:       kind,
		Op:         op,
		Message:    message,
		StatusCode: status,
		Body:       body,
	}
}

// Validation reports per-field problems keyed by field name.
func Validation(op string, fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Op:      op,
		Message: "invalid input",
		Fields:  fields,
	}
}

func InvalidInput(op string, err error, message string) *Error {
	return E(KindValidation, op, err, message)
}

func NotFound(op string, err error, message string) *Error {
	return E(KindNotFound, op, err, message)
}

func Internal(op string, err error, message string) *Error {
	return E(KindInternal, op, err, message)
}

func Unavailable(op string, err error, message string) *Error {
	return E(KindUnavailable, op, err, message)
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if pkgerrors.As(err, &e) {
		return e.Kind
	}
	if pkgerrors.Is(err, context.DeadlineExceeded) {
		return KindTimedOut
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := pkgerrors.As(err, &e)
	return e, ok
}

// HTTPStatus maps an error to the status code the gateway responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindTimedOut:
		return http.StatusGatewayTimeout
	case KindPresignedAcquisitionFailed, KindTransferFailed, KindSubmissionFailed,
		KindMalformedResponse, KindPollFailed, KindNotificationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns a human readable message without internal causes.
func Message(err error) string {
	if e, ok := As(err); ok {
		return e.Message
	}
	return "An error occurred while processing your request"
}
