// Package services is the CRUD layer over categories, products and users.
//
// Every operation validates its input before touching the store and reports failures as one of
// three distinguishable kinds: *ValidationError for rejected input, ErrNotFound (and its
// per-entity variants) for missing rows, and *StorageError for anything the store refused or
// could not do. Storage failures are logged where they are detected.
package services

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/s4m/pharmacy/models"
)

var (
	// ErrNotFound matches every "no such row" error returned by the services.
	ErrNotFound = models.ErrNotFound
	// ErrCategoryInUse is returned when deleting a category that products still reference.
	ErrCategoryInUse = errors.New("category is still referenced by products")
)

// ValidationError reports caller-supplied data that violates an invariant.
// Reason is meant to be shown to the user next to Field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps a persistence fault: lost connection, rejected statement, and so on.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// IsStorage reports whether err is a storage failure.
func IsStorage(err error) bool {
	var serr *StorageError
	return errors.As(err, &serr)
}

func storageFailure(ctx context.Context, logger *slog.Logger, op string, err error) error {
	logger.ErrorContext(ctx, "storage failure", slog.String("op", op), slog.Any("error", err))
	return &StorageError{Op: op, Err: errors.WithStack(err)}
}

// Constraint checks rely on the dialector's error translation (gorm.Config.TranslateError).
func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
