package repository

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	MinSaveNameLength = 3
	MaxSaveNameLength = 8
)

var (
	ErrSaveNotFound    = errors.New("save not found")
	ErrInvalidSaveName = errors.New("save name must have between 3 and 8 characters")
)

// SaveRepository stores serialized sessions under user-chosen names.
type SaveRepository interface {
	List(ctx context.Context) ([]string, error)
	Write(ctx context.Context, name string, blob []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
}

func ValidateSaveName(name string) error {
	if n := utf8.RuneCountInString(name); n < MinSaveNameLength || n > MaxSaveNameLength {
		return fmt.Errorf("%w: %q", ErrInvalidSaveName, name)
	}

	return nil
}
