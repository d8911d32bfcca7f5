package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateUser        = errors.New("user already exists")
	ErrEmailTaken           = fmt.Errorf("%w: email already registered", ErrDuplicateUser)
	ErrUsernameTaken        = fmt.Errorf("%w: username already taken", ErrDuplicateUser)
	ErrRoleNotFound         = errors.New("role not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrInvalidAccessToken   = errors.New("invalid or expired access token")
	ErrForbidden            = errors.New("insufficient permissions")
	ErrMissingSigningSecret = errors.New("configuration: JWT_SECRET is not set")
	ErrInternal             = errors.New("internal server error")

	ErrUserNotFound            = fmt.Errorf("user %w", ErrNotFound)
	ErrContactNotFound         = fmt.Errorf("contact %w", ErrNotFound)
	ErrBrochureRequestNotFound = fmt.Errorf("brochure request %w", ErrNotFound)
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError is a shortcut for a single-field failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
