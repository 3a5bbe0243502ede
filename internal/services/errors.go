package services

import (
	"errors"
	"fmt"

	"tienda/internal/repositories"
)

// Error classes. Handlers map these onto HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Business rule violations.
var (
	ErrInsufficientStock   = fmt.Errorf("%w: insufficient stock", ErrBadRequest)
	ErrProductNotAvailable = fmt.Errorf("%w: product not available", ErrBadRequest)
	ErrInvalidTransition   = fmt.Errorf("%w: invalid transition", ErrBadRequest)
	ErrInvalidQuantity     = fmt.Errorf("%w: quantity must be positive", ErrBadRequest)
)

// fromRepo attaches the service error class matching a repository sentinel.
func fromRepo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repositories.ErrInsufficientStock):
		return fmt.Errorf("%w: %w", ErrInsufficientStock, err)
	case errors.Is(err, repositories.ErrDuplicate),
		errors.Is(err, repositories.ErrInUse),
		errors.Is(err, repositories.ErrStaleWrite):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
