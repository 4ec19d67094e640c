package sqlite

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tareaspendientes/tareas-api/internal/store"
)

// mapError translates gorm errors to store errors. notFound is returned for
// missing records; nil means store.ErrNotFound.
func mapError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if notFound != nil {
			return notFound
		}
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	default:
		return err
	}
}

// checkAffected returns notFound when a statement matched no rows.
func checkAffected(res *gorm.DB, notFound error) error {
	if res.Error != nil {
		return mapError(res.Error, notFound)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
