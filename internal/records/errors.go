package records

import (
	"errors"
	"fmt"
)

var (
	ErrDBRequired        = errors.New("records: database is required")
	ErrResourceRequired  = errors.New("records: resource is required")
	ErrDriverUnsupported = errors.New("records: unsupported driver")
	ErrNotFound          = errors.New("records: not found")
)

// NotFoundError is returned when a record does not exist within its resource.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s record %d not found", e.Resource, e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
