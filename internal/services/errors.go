package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrForbidden          = errors.New("not allowed to act on behalf of another user")
	ErrSelfFollow         = errors.New("cannot follow yourself")
)

// ValidationError carries field-level messages for a rejected request
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// DuplicateError reports every unique field that collided on registration
type DuplicateError struct {
	Messages []string
}

func (e *DuplicateError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// FieldError formats a message the way form validation reports it
func FieldError(label, reason string) string {
	return fmt.Sprintf("Error in the %s field - %s", label, reason)
}

func fieldValidation(label, reason string) *ValidationError {
	return &ValidationError{Messages: []string{FieldError(label, reason)}}
}
