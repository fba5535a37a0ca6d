// Package repositories reads and writes the store's tables. Every call goes
// to the database; nothing is cached between calls.
package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/pkg/database"
)

// storeErr maps a gorm error to the store's error vocabulary: a missing row
// becomes models.ErrNotFound, anything else is storage unavailability.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, database.Unavailable(err))
}
