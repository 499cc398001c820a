// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"errors"

	"tourdiary/internal/models"

	"gorm.io/gorm"
)

// orNotFound converts a record-not-found store error into a NotFound
// application error with the given message; anything else becomes Internal.
func orNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(message)
	}
	return models.NewInternalError(err)
}
