package service

import (
	"errors"
	"fmt"
)

var (
	ErrStorage      = errors.New("storage error")
	ErrInvalidInput = errors.New("invalid input")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
