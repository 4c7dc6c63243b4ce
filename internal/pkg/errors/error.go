package xerrors

import (
	"errors"
	"fmt"
)

// Sentinels shared by repositories, services and the HTTP layer. Callers test
// for them with errors.Is; response.StatusFor maps them onto status codes.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict: resource already exists")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
