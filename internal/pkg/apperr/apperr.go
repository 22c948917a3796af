package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable error classification reported to callers. Transport
// layers map kinds to status codes; the message is safe to expose and
// never carries upstream error bodies or stack traces.
type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindPermissionDenied Kind = "permission_denied"
	KindNotFound         Kind = "not_found"
	KindUpstream         Kind = "upstream_unavailable"
	KindInternal         Kind = "internal_error"
)

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// PublicMessage is what is surfaced to the caller. The wrapped cause stays
// in logs only.
func (e *Error) PublicMessage() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func PermissionDenied(message string) *Error {
	return New(KindPermissionDenied, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Upstream(message string, cause error) *Error {
	return Wrap(KindUpstream, message, cause)
}

func Internal(cause error) *Error {
	return Wrap(KindInternal, "internal error", cause)
}

// KindOf extracts the kind from any error, defaulting to internal for
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
