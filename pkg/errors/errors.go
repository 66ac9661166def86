package errors

import (
	"errors"
	"fmt"
)

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrTermNotFound         = errors.New("academic term not found")
	ErrSheetNotFound        = errors.New("evaluation sheet not found")
	ErrSubmissionNotFound   = errors.New("report submission not found")
	ErrInvalidSheetFormat   = errors.New("invalid sheet format")
	ErrSchemaValidation     = errors.New("schema validation failed")
	ErrNoCurrentTerm        = errors.New("no current term configured")
	ErrAuthorityUnavailable = errors.New("authority API unavailable")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

type RetryableError struct {
	Err     error
	Message string
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %s - %s", e.Message, e.Err.Error())
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error, message string) error {
	return RetryableError{
		Err:     err,
		Message: message,
	}
}

// IsRetryable reports whether err or any error it wraps is a RetryableError.
func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re)
}
