package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DuplicateNameError is returned by CreateProduct when a product with the
// same name already exists.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("product with name '%s' already exists", e.Name)
}

// ConflictOnSaveError is returned when the store rejects a write because of a
// uniqueness or integrity constraint. It covers the window between the
// existence check and the write.
type ConflictOnSaveError struct {
	Name string
	Err  error
}

func (e *ConflictOnSaveError) Error() string {
	return fmt.Sprintf("data integrity violation or duplicate name while saving product '%s'", e.Name)
}

func (e *ConflictOnSaveError) Unwrap() error { return e.Err }

// NotFoundError is returned when no product exists for the given ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with ID %s not found", e.ID)
}

// UnexpectedPersistenceError wraps any other store failure on the write path.
// The message is deliberately opaque; the cause is kept for logging.
type UnexpectedPersistenceError struct {
	Op  string
	Err error
}

func (e *UnexpectedPersistenceError) Error() string {
	return fmt.Sprintf("unexpected error while %s product", e.Op)
}

func (e *UnexpectedPersistenceError) Unwrap() error { return e.Err }

// InvalidInputError is returned when a ProductInput fails validation.
type InvalidInputError struct {
	Err error
}

func (e *InvalidInputError) Error() string {
	var verrs validator.ValidationErrors
	if !errors.As(e.Err, &verrs) {
		return fmt.Sprintf("invalid product input: %v", e.Err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return "invalid product input: " + strings.Join(msgs, "; ")
}

func (e *InvalidInputError) Unwrap() error { return e.Err }
