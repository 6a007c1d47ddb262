package postgres

import (
	"context"
	"fmt"

	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/repository"
	"gorm.io/gorm"
)

const appliedJobsTable = "user_applied_jobs"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("find user by email", err)
	}
	return r.withAppliedJobs(ctx, &user)
}

func (r *UserRepository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find user: %w", repository.ErrNotFound)
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate("find user", err)
	}
	return r.withAppliedJobs(ctx, &user)
}

func (r *UserRepository) UpdateUser(ctx context.Context, id string, patch repository.UserPatch) (*models.User, error) {
	if !validID(id) {
		return nil, fmt.Errorf("update user: %w", repository.ErrNotFound)
	}
	updates := map[string]any{}
	setIf(updates, "username", patch.Username)
	setIf(updates, "email", patch.Email)
	setIf(updates, "age", patch.Age)
	setIf(updates, "profile_pic", patch.ProfilePic)
	setIf(updates, "experience", patch.Experience)
	setIf(updates, "looking_for", patch.LookingFor)
	setIf(updates, "available", patch.Available)
	setIf(updates, "preference", patch.Preference)
	setIf(updates, "location", patch.Location)
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, translate("update user", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("update user: %w", repository.ErrNotFound)
		}
	}
	return r.FindUserByID(ctx, id)
}

func (r *UserRepository) AddAppliedJob(ctx context.Context, email, jobID string) error {
	var user models.User
	if err := r.db.WithContext(ctx).Select("id").Where("email = ?", email).First(&user).Error; err != nil {
		return translate("find applicant", err)
	}
	err := r.db.WithContext(ctx).Exec(
		"INSERT INTO "+appliedJobsTable+" (user_id, job_posting_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		user.ID, jobID,
	).Error
	return translate("link applied job", err)
}

func (r *UserRepository) withAppliedJobs(ctx context.Context, user *models.User) (*models.User, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Table(appliedJobsTable).
		Where("user_id = ?", user.ID).
		Pluck("job_posting_id", &ids).Error
	if err != nil {
		return nil, translate("list applied jobs", err)
	}
	user.AppliedJobIDs = ids
	return user, nil
}
