package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInUse is returned when a row is still referenced by another table.
	ErrInUse = errors.New("record is still referenced")
	// ErrInsufficientStock is returned by the conditional stock decrement.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStaleWrite is returned when a compare-and-swap update matched no row.
	ErrStaleWrite = errors.New("stale write")
)

// translate maps gorm errors onto the repository sentinels.
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", msg, ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", msg, ErrInUse)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
