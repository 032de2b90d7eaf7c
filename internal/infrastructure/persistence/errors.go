package persistence

import (
	"errors"

	"gorm.io/gorm"
)

// notFoundAs maps a missing row to the caller's domain error and passes
// every other error through
func notFoundAs(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
