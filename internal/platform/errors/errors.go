package apperrors

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrStorage            = errors.New("storage error")
	ErrFormat             = errors.New("format error")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// IsStorage reports whether err is a storage failure, including an unavailable backend.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage) || errors.Is(err, ErrBackendUnavailable)
}
