package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode classifies a failed write. HTTP status and retry decisions key off it.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
	CodeUnauthenticated    ErrorCode = "unauthenticated"
	CodeForbidden          ErrorCode = "forbidden"
)

// Error is returned by every aggregate and service write.
// Message is safe to show to the caller; Cause is not.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

// Error renders "op: message (code)", dropping whichever parts are empty.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Message != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Message)
	}
	if b.Len() == 0 {
		return string(e.Code)
	}
	b.WriteString(" (" + string(e.Code) + ")")
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap reuses err's text as the caller message.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func IsCode(err error, code ErrorCode) bool {
	e := asError(err)
	return e != nil && e.Code == code
}

func CodeOf(err error) ErrorCode {
	if e := asError(err); e != nil {
		return e.Code
	}
	return ""
}

// MessageOf returns the caller-facing message, or "" for foreign errors.
func MessageOf(err error) string {
	if e := asError(err); e != nil {
		return e.Message
	}
	return ""
}
