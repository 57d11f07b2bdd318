package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                 = errors.New("not found")
	ErrDuplicateRequest         = errors.New("a matching request is already pending")
	ErrInvalidStatus            = errors.New("invalid status")
	ErrInvalidTransition        = errors.New("status transition not allowed")
	ErrSettlementPartialFailure = errors.New("settlement partially failed")
	ErrAlreadySettled           = errors.New("booking already settled")
	ErrForbidden                = errors.New("forbidden")
	ErrInvalidInput             = errors.New("invalid input")
)

// NotFoundError names the missing entity. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// EntityOf returns the entity name carried by a not-found error, or "" if err is not one.
func EntityOf(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Entity
	}
	return ""
}
