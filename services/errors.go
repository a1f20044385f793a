package services

import (
	"errors"
	"fmt"
)

// The service layer reports failures through this small taxonomy; the HTTP
// layer maps each category to a status code.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrQuotaExceeded    = errors.New("creation quota exceeded")
)

// ValidationError reports a bad input field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ContentRejectedError reports content flagged by moderation.
type ContentRejectedError struct {
	Reason string
}

func (e *ContentRejectedError) Error() string {
	return "content rejected: " + e.Reason
}

// AlreadyExistsError reports a detected duplicate, naming the conflicting
// record so the caller can surface it.
type AlreadyExistsError struct {
	Name string
	ID   uint
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("already exists: %s (id %d)", e.Name, e.ID)
}
