package postgres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

// translateError maps gorm errors onto the repository sentinels. The
// database is opened with TranslateError so unique violations surface
// as gorm.ErrDuplicatedKey regardless of driver.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, repositories.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// requireAffected turns a zero-row write into ErrNotFound
func requireAffected(result *gorm.DB, op string) error {
	if result.Error != nil {
		return translateError(result.Error, op)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}
	return nil
}

// orderClause builds a whitelisted ORDER BY with id as the final tie-break
func orderClause(sortBy, sortOrder string, allowed map[string]string, fallback string) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed[fallback]
	}

	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}

	if column == "id" {
		return fmt.Sprintf("id %s", direction)
	}
	return fmt.Sprintf("%s %s, id ASC", column, direction)
}
