package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Ordering scope errors
var (
	ErrScopeMismatch = errors.New("reorder does not match scope")
	ErrInvalidScope  = errors.New("invalid scope")
)

// NewScopeMismatchError rejects a reorder whose updates are not exactly the
// rows of one scope stamped 1..N.
func NewScopeMismatchError(scope string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%w: %w", ErrValidation, ErrScopeMismatch),
		Details:    fmt.Sprintf("Reorder of %s rejected: %s", scope, reason),
		Field:      "updates",
	}
}

func NewInvalidScopeError(scope string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%w: %w", ErrValidation, ErrInvalidScope),
		Details:    fmt.Sprintf("Unknown scope type %q", scope),
		Field:      "type",
	}
}

func IsScopeMismatchError(err error) bool {
	return errors.Is(err, ErrScopeMismatch)
}

func IsInvalidScopeError(err error) bool {
	return errors.Is(err, ErrInvalidScope)
}
