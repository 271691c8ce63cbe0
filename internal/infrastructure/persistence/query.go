package persistence

import (
	"errors"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// takeOne loads a single row into dest. A miss becomes shared.ErrNotFound
// carrying "<what> not found" as the message.
func takeOne(query *gorm.DB, dest any, what string) error {
	err := query.Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound.WithMessage(what + " not found")
	}
	return err
}
