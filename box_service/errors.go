package box_service

import (
	"errors"
	"fmt"
)

var ErrSpriteNotFound = errors.New("sprite not found in assets")

// ValidationError is returned when a request can't be accepted as is.
// Message is meant for the client.
type ValidationError struct {
	Message string
}

func (err *ValidationError) Error() string {
	return err.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
