package repository

import (
	"errors"

	"rpl-backend/pkg/apperr"

	"gorm.io/gorm"
)

// translate maps storage-layer failures into the app error taxonomy at
// the repository boundary so services never see raw gorm errors.
func translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.NotFound, err, "%s", notFoundMsg)
	}
	return apperr.Wrap(apperr.Storage, err, "database error")
}

// storageErr wraps any non-nil error as a storage failure.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Wrap(apperr.Storage, err, "database error")
}
