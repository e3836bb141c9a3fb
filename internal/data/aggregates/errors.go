package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
)

// Sentinels behind the tagged constructors below. Guards return tagged
// errors; MapError turns them into coded *domainagg.Error values.
var (
	ErrValidation = errors.New("aggregate validation")
	ErrNotFound   = errors.New("aggregate not found")
	ErrInvariant  = errors.New("aggregate invariant violation")
	ErrConflict   = errors.New("aggregate conflict")
)

// taggedError is a caller-facing message that unwraps to its sentinel.
type taggedError struct {
	kind error
	msg  string
}

func (e *taggedError) Error() string { return e.msg }
func (e *taggedError) Unwrap() error { return e.kind }

func tag(kind error, msg string) error {
	return &taggedError{kind: kind, msg: strings.TrimSpace(msg)}
}

func ValidationError(msg string) error { return tag(ErrValidation, msg) }
func NotFoundError(msg string) error   { return tag(ErrNotFound, msg) }
func InvariantError(msg string) error  { return tag(ErrInvariant, msg) }
func ConflictError(msg string) error   { return tag(ErrConflict, msg) }

var sentinelCodes = []struct {
	err  error
	code domainagg.ErrorCode
}{
	{ErrValidation, domainagg.CodeValidation},
	{ErrNotFound, domainagg.CodeNotFound},
	{ErrInvariant, domainagg.CodeInvariantViolation},
	{ErrConflict, domainagg.CodeConflict},
	{gorm.ErrRecordNotFound, domainagg.CodeNotFound},
	{context.Canceled, domainagg.CodeRetryable},
	{context.DeadlineExceeded, domainagg.CodeRetryable},
}

var sqlStateCodes = map[string]domainagg.ErrorCode{
	"23505": domainagg.CodeConflict,           // unique_violation
	"23503": domainagg.CodePreconditionFailed, // foreign_key_violation
	"40001": domainagg.CodeRetryable,          // serialization_failure
	"40P01": domainagg.CodeRetryable,          // deadlock_detected
	"55P03": domainagg.CodeRetryable,          // lock_not_available
}

// MapError classifies err for the write named op. Errors that already carry
// a code pass through untouched; anything unrecognised becomes internal.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *domainagg.Error
	if errors.As(err, &coded) {
		return err
	}
	return domainagg.Wrap(classify(err), op, err)
}

func classify(err error) domainagg.ErrorCode {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := sqlStateCodes[pgErr.Code]; ok {
			return code
		}
	}
	// sqlite and wrapped driver errors only expose text
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{"duplicate key", "unique constraint"} {
		if strings.Contains(msg, needle) {
			return domainagg.CodeConflict
		}
	}
	for _, needle := range []string{"deadlock", "serialization", "database is locked", "timeout", "temporar"} {
		if strings.Contains(msg, needle) {
			return domainagg.CodeRetryable
		}
	}
	return domainagg.CodeInternal
}
