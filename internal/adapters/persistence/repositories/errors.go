package repositories

import (
	"errors"

	"homyhive/internal/core/domain"

	"gorm.io/gorm"
)

// translate maps driver level errors onto the domain taxonomy
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateEntry
	}
	return err
}
