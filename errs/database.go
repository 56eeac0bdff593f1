package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrTransactionFailed    = errors.New("transaction failed")
	ErrForeignKeyConstraint = errors.New("foreign key constraint violation")
	ErrDatabaseTimeout      = errors.New("database timeout")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		var apiErr *ApiErr
		if errors.As(cause, &apiErr) {
			return apiErr
		}

		switch {
		case errors.Is(cause, gorm.ErrRecordNotFound):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
			}
		case errors.Is(cause, context.DeadlineExceeded):
			return &ApiErr{
				StatusCode: http.StatusGatewayTimeout,
				err:        ErrDatabaseTimeout,
				Details:    details,
				Cause:      cause,
			}
		}

		errStr := strings.ToLower(cause.Error())
		switch {
		case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "unique constraint"):
			dup := NewAlreadyExists(entity)
			dup.Details = details
			dup.Cause = cause
			return dup
		case strings.Contains(errStr, "foreign key constraint"):
			return NewForeignKeyConstraintError(entity, "its parent", cause)
		case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "database is closed"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

// NewTransactionFailedError is the PersistError of a multi-row write: nothing
// from the transaction was committed.
func NewTransactionFailedError(operation string, cause error) *ApiErr {
	if errors.Is(cause, context.DeadlineExceeded) {
		return &ApiErr{
			StatusCode: http.StatusGatewayTimeout,
			err:        ErrDatabaseTimeout,
			Details:    fmt.Sprintf("Transaction timed out during %s", operation),
			Cause:      cause,
			Field:      "transaction",
		}
	}
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrTransactionFailed,
		Details:    fmt.Sprintf("Transaction failed during %s", operation),
		Cause:      cause,
		Field:      "transaction",
	}
}

func NewForeignKeyConstraintError(entity, referencedEntity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrForeignKeyConstraint,
		Details:    fmt.Sprintf("Foreign key constraint violation: %s references %s", entity, referencedEntity),
		Cause:      cause,
		Field:      "foreign_key",
	}
}

// IsPersistError reports whether err is a store-layer failure.
func IsPersistError(err error) bool {
	return errors.Is(err, ErrTransactionFailed) ||
		errors.Is(err, ErrDatabaseQuery) ||
		errors.Is(err, ErrDatabaseConnection) ||
		errors.Is(err, ErrDatabaseTimeout)
}

func IsTransactionFailedError(err error) bool {
	return errors.Is(err, ErrTransactionFailed)
}

func IsForeignKeyConstraintError(err error) bool {
	return errors.Is(err, ErrForeignKeyConstraint)
}

func IsDatabaseTimeoutError(err error) bool {
	return errors.Is(err, ErrDatabaseTimeout)
}
