package services

import (
	"errors"
	"fmt"

	"github.com/tuition-tracker/tracker-service/internal/validator"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("resource already exists")
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("invalid credentials")
	ErrForbidden        = errors.New("access denied")
)

type ValidationErrors = validator.ValidationErrors

// ValidationFailedError carries field details for an invalid request
type ValidationFailedError struct {
	Errors ValidationErrors
}

func (e *ValidationFailedError) Error() string {
	return e.Errors.Error()
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidationFailed
}

func NewValidationErrors(errs ValidationErrors) error {
	return &ValidationFailedError{Errors: errs}
}

func NewValidationError(field, message string, value interface{}) error {
	return NewValidationErrors(ValidationErrors{{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    "business_logic",
	}})
}

type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: id}
}

type ConflictError struct {
	Resource string
	Field    string
	Value    interface{}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %v already exists", e.Resource, e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func NewConflictError(resource, field string, value interface{}) error {
	return &ConflictError{Resource: resource, Field: field, Value: value}
}
