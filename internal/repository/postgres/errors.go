package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rolejet/RoleJet/internal/repository"
	"gorm.io/gorm"
)

// translate maps gorm sentinel errors onto the repository ones.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// validID guards uuid columns against malformed path parameters, which
// postgres would otherwise reject with a syntax error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var (
	_ repository.CompanyStore = (*CompanyRepository)(nil)
	_ repository.UserStore    = (*UserRepository)(nil)
	_ repository.JobStore     = (*JobRepository)(nil)
)
