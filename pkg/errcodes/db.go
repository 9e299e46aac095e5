package errcodes

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/database"
)

// FromDB maps a storage error for resource onto an API error. Missing rows
// become NOT_FOUND, unique violations CONFLICT and other constraint failures
// CONSTRAINT_VIOLATION. Anything else is returned with a stack.
func FromDB(err error, resource string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return NotFound(resource)
	case database.IsUniqueViolation(err):
		return Conflict(resource)
	case database.IsConstraintViolation(err):
		return ConstraintViolation(resource + ": tietojen eheyssääntöä rikottiin.")
	}
	return errors.WithStack(err)
}

// Storage logs an unexpected storage error under the operation name and
// returns the INTERNAL_ERROR shown to the client. API errors pass through.
func Storage(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	logger.FromContext(ctx).Err(err).Error("storage error", logger.Data{"op": op})
	return Internal(op)
}
