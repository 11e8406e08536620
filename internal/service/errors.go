package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when the caller may not act on the resource
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStatus is returned for a status outside the document type's set
	ErrInvalidStatus = errors.New("invalid status")

	// ErrConflict is returned when a write clashes with existing data
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDocumentNumberConflict is returned when number allocation kept colliding
	ErrDocumentNumberConflict = errors.New("document number conflict, please retry")

	// ErrInvalidCredentials is returned for a wrong email or password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already has an account
	ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrConflict)

	// ErrAccountDisabled is returned when a deactivated user tries to log in
	ErrAccountDisabled = errors.New("account is deactivated")
)
