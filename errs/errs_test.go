package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestApiErr_UnwrapAndFullError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewTransactionFailedError("reorder layers", cause)

	assert.True(t, IsTransactionFailedError(err))
	assert.True(t, IsPersistError(err))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, "transaction failed: Transaction failed during reorder layers -> disk I/O error", err.GetFullError())
}

func TestValidationErrors_ShareSentinel(t *testing.T) {
	for _, err := range []error{
		NewMissingRequiredFieldError("name"),
		NewInvalidFieldError("status", "must be active or missing"),
		NewInvalidIndexError("from", 4, 3),
		NewInvalidJSONError(nil),
		NewScopeMismatchError("layers", "duplicate id"),
	} {
		assert.True(t, IsValidationError(err), err.Error())
		assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	}
	assert.True(t, IsInvalidIndexError(NewInvalidIndexError("to", -1, 2)))
}

func TestNewDatabaseError_Classifies(t *testing.T) {
	notFound := NewDatabaseError("find", "layer", fmt.Errorf("finding layer: %w", gorm.ErrRecordNotFound))
	assert.True(t, IsNotFound(notFound))
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)

	timeout := NewDatabaseError("list", "layers", context.DeadlineExceeded)
	assert.True(t, IsDatabaseTimeoutError(timeout))

	dup := NewDatabaseError("create", "user", errors.New("UNIQUE constraint failed: users.username"))
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
	assert.ErrorIs(t, dup, ErrAlreadyExists)

	orphan := NewDatabaseError("create", "tech item", errors.New("FOREIGN KEY constraint failed"))
	assert.True(t, IsForeignKeyConstraintError(orphan))
	assert.Equal(t, http.StatusBadRequest, orphan.StatusCode)

	already := NewNotFound("category")
	assert.Same(t, already, NewDatabaseError("update", "category", already))

	generic := NewDatabaseError("update", "layer", errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, generic.StatusCode)
	assert.True(t, IsPersistError(generic))
}

func TestAuthError_IsGeneric(t *testing.T) {
	err := NewAuthError()
	assert.True(t, IsAuthError(err))
	assert.Equal(t, "invalid credentials", err.Error())
	assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
}

func TestStatusCode_NonApiErr(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
}
