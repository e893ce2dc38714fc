package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/team-task-tracker/internal/database"
	"go.uber.org/zap"
)

var (
	ErrRetryableConflict = errors.New("the resource is busy, retry the request")
	ErrDuplicate         = errors.New("a record with the same unique value already exists")
	ErrNoFieldsToUpdate  = errors.New("at least one field must be provided")
)

// storeError classifies a datastore failure. Contention and unique violations
// become sentinel errors; anything else is logged and wrapped.
func storeError(log *zap.Logger, op string, err error) error {
	switch {
	case database.IsContention(err):
		log.Warn("Datastore contention", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrRetryableConflict, err)
	case database.IsDuplicate(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		log.Error("Datastore failure", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
