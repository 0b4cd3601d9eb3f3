package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/SscSPs/oneflow/internal/apperrors"
)

// requireID checks a lookup key. Every stored row is keyed by a UUID, so a
// malformed id cannot name anything and is reported as not found.
func requireID(entity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s %q", apperrors.ErrNotFound, entity, id)
	}
	return nil
}

// requireFilterID checks an optional id used to narrow a listing.
func requireFilterID(field, id string) error {
	if id == "" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s must be a UUID", apperrors.ErrValidation, field)
	}
	return nil
}
