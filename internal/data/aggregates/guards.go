package aggregates

import (
	"strings"

	"github.com/google/uuid"
)

// RequireFound converts a missing or foreign row into a typed not-found error.
func RequireFound(ok bool, message string) error {
	if ok {
		return nil
	}
	return NotFoundError(strings.TrimSpace(message))
}

// RequireValid converts a failed input check into a typed validation error.
func RequireValid(ok bool, message string) error {
	if ok {
		return nil
	}
	return ValidationError(strings.TrimSpace(message))
}

// RequireUnique fails when ids repeats any non-nil id.
func RequireUnique(ids []uuid.UUID, message string) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			return ValidationError(strings.TrimSpace(message))
		}
		seen[id] = struct{}{}
	}
	return nil
}
