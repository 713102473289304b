package util

import (
	"errors"
	"fmt"
)

// Error taxonomy sentinels. Services wrap these with fmt.Errorf("...: %w", ...)
// and controllers map them to HTTP status codes via RespondError.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	ErrUserNotFound       = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrCourseNotFound     = fmt.Errorf("course not found: %w", ErrNotFound)
	ErrLessonNotFound     = fmt.Errorf("lesson not found: %w", ErrNotFound)
	ErrEmailRegistered    = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrAlreadyEnrolled    = fmt.Errorf("already enrolled in this course: %w", ErrConflict)
	ErrNotCourseOwner     = fmt.Errorf("not the owner of this course: %w", ErrForbidden)
	ErrNotEnrolled        = fmt.Errorf("not enrolled in this course: %w", ErrForbidden)
	ErrEnrollmentMissing  = fmt.Errorf("enrollment not found: %w", ErrNotFound)
)

// Validation builds a 400-mapped error with a caller-supplied message.
func Validation(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}
