package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound is returned when no row matches the lookup
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a write violates a unique index
	ErrDuplicateKey = errors.New("duplicate key")
)

// translateError maps driver errors onto the repository sentinels
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
