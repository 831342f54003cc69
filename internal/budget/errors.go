package budget

import (
	"errors"
	"fmt"
)

// Every failure the engine can report maps to exactly one of these
// sentinels; callers distinguish them with errors.Is. Nothing is downgraded
// to a generic success or a bare 500.
var (
	ErrValidation        = errors.New("validation failed")
	ErrClientNotFound    = errors.New("client not found")
	ErrReferenceNotFound = errors.New("referenced catalog item not found")
	ErrBudgetNotFound    = errors.New("budget not found")
	ErrDuplicateNumber   = errors.New("budget number already in use")
	ErrStorage           = errors.New("storage failure")
)

// storageErr wraps an unexpected database error so it stays distinguishable
// from the domain failures above. No retries happen here; the whole
// operation is atomic, so the caller may safely repeat it.
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
