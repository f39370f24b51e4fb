package service

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrReaderNil          = errors.New("reader is nil")
	ErrDuplicate          = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user is disabled")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrLLMUnavailable     = errors.New("language model unavailable")
	ErrCacheUnavailable   = errors.New("cache unavailable")

	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
)

// mapNoRows returns notFound when err is sql.ErrNoRows and err otherwise.
func mapNoRows(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}
