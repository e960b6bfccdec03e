package repository

import (
	"errors"

	"gorm.io/gorm"
)

// notFound turns gorm's record-not-found into a nil error so callers can
// distinguish a miss (nil entity) from a store failure.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
