package postgres

import (
	"context"
	"fmt"

	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/repository"
	"github.com/rolejet/RoleJet/internal/search"
	"gorm.io/gorm"
)

// insertion order; created_at alone can tie within a transaction
const jobOrder = "created_at, id"

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func orderedApplications(db *gorm.DB) *gorm.DB {
	return db.Order("applied_at, id")
}

func (r *JobRepository) CreateJob(ctx context.Context, job *models.JobPosting) error {
	return translate("create job", r.db.WithContext(ctx).Omit("Company", "Applications").Create(job).Error)
}

func (r *JobRepository) GetJob(ctx context.Context, id string) (*models.JobPosting, error) {
	if !validID(id) {
		return nil, fmt.Errorf("get job: %w", repository.ErrNotFound)
	}
	var job models.JobPosting
	err := r.db.WithContext(ctx).
		Preload("Applications", orderedApplications).
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, translate("get job", err)
	}
	return &job, nil
}

func (r *JobRepository) GetJobWithCompany(ctx context.Context, id string) (*models.JobPosting, error) {
	if !validID(id) {
		return nil, fmt.Errorf("get job: %w", repository.ErrNotFound)
	}
	var job models.JobPosting
	if err := r.db.WithContext(ctx).Preload("Company").Where("id = ?", id).First(&job).Error; err != nil {
		return nil, translate("get job", err)
	}
	return &job, nil
}

// DeleteJob removes the posting; applications and applied-job links go with
// it through ON DELETE CASCADE.
func (r *JobRepository) DeleteJob(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete job: %w", repository.ErrNotFound)
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.JobPosting{})
	if result.Error != nil {
		return translate("delete job", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete job: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *JobRepository) ListJobs(ctx context.Context, filter search.Filter) ([]models.JobPosting, error) {
	jobs := []models.JobPosting{}
	err := r.db.WithContext(ctx).Scopes(filter.Scope()).Order(jobOrder).Find(&jobs).Error
	if err != nil {
		return nil, translate("list jobs", err)
	}
	return jobs, nil
}

func (r *JobRepository) ListJobsByCompany(ctx context.Context, companyID string) ([]models.JobPosting, error) {
	jobs := []models.JobPosting{}
	if !validID(companyID) {
		return jobs, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Applications", orderedApplications).
		Where("company_id = ?", companyID).
		Order(jobOrder).
		Find(&jobs).Error
	if err != nil {
		return nil, translate("list company jobs", err)
	}
	return jobs, nil
}

func (r *JobRepository) ListJobsWithApplicants(ctx context.Context, companyID string) ([]models.JobPosting, error) {
	jobs := []models.JobPosting{}
	if !validID(companyID) {
		return jobs, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Applications", orderedApplications).
		Where("company_id = ?", companyID).
		Where("EXISTS (SELECT 1 FROM applications WHERE applications.job_posting_id = job_postings.id)").
		Order(jobOrder).
		Find(&jobs).Error
	if err != nil {
		return nil, translate("list jobs with applicants", err)
	}
	return jobs, nil
}

func (r *JobRepository) AddApplication(ctx context.Context, app *models.Application) error {
	if !validID(app.JobPostingID) {
		return fmt.Errorf("add application: %w", repository.ErrNotFound)
	}
	return translate("add application", r.db.WithContext(ctx).Create(app).Error)
}

func (r *JobRepository) RemoveApplication(ctx context.Context, jobID, applicationID string) error {
	if !validID(jobID) || !validID(applicationID) {
		return fmt.Errorf("remove application: %w", repository.ErrNotFound)
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND job_posting_id = ?", applicationID, jobID).
		Delete(&models.Application{})
	if result.Error != nil {
		return translate("remove application", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("remove application: %w", repository.ErrNotFound)
	}
	return nil
}
