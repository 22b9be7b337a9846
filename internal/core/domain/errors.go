package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrJobNotFound        = errors.New("job not found")
	ErrDuplicateJob       = errors.New("job already exists")
	ErrHistoryConflict    = errors.New("job history changed concurrently")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already taken")
	ErrUserIDTaken        = errors.New("user id already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrDailyLogNotFound   = errors.New("daily log not found")
	ErrBlobNotFound       = errors.New("file not found")
	ErrStorage            = errors.New("storage failure")
)

// Invalidf builds an ErrValidation carrying a human-readable detail.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
