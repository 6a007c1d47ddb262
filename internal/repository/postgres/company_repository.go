package postgres

import (
	"context"
	"fmt"

	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/repository"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) CreateCompany(ctx context.Context, company *models.Company) error {
	return translate("create company", r.db.WithContext(ctx).Create(company).Error)
}

func (r *CompanyRepository) FindCompanyByEmail(ctx context.Context, email string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&company).Error; err != nil {
		return nil, translate("find company by email", err)
	}
	return &company, nil
}

func (r *CompanyRepository) FindCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find company: %w", repository.ErrNotFound)
	}
	var company models.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		return nil, translate("find company", err)
	}
	return &company, nil
}

func (r *CompanyRepository) CompanyExists(ctx context.Context, name, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("name = ? OR email = ?", name, email).
		Count(&count).Error
	if err != nil {
		return false, translate("count companies", err)
	}
	return count > 0, nil
}

func (r *CompanyRepository) UpdateCompany(ctx context.Context, id string, patch repository.CompanyPatch) (*models.Company, error) {
	if !validID(id) {
		return nil, fmt.Errorf("update company: %w", repository.ErrNotFound)
	}
	updates := map[string]any{}
	setIf(updates, "name", patch.Name)
	setIf(updates, "email", patch.Email)
	setIf(updates, "location", patch.Location)
	setIf(updates, "industry", patch.Industry)
	setIf(updates, "password_hash", patch.PasswordHash)
	setIf(updates, "image", patch.Image)
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Company{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, translate("update company", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("update company: %w", repository.ErrNotFound)
		}
	}
	return r.FindCompanyByID(ctx, id)
}

func setIf[T any](updates map[string]any, column string, value *T) {
	if value != nil {
		updates[column] = *value
	}
}
