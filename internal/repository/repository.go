// Package repository declares the stores the services depend on. The
// postgres subpackage backs them with gorm; memory backs them with maps.
package repository

import (
	"context"
	"errors"

	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/search"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// CompanyPatch holds the fields to overwrite; nil leaves a field untouched.
type CompanyPatch struct {
	Name         *string
	Email        *string
	Location     *string
	Industry     *string
	PasswordHash *string
	Image        *string
}

type UserPatch struct {
	Username   *string
	Email      *string
	Age        *int
	ProfilePic *string
	Experience *string
	LookingFor *string
	Available  *string
	Preference *string
	Location   *string
}

type CompanyStore interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	FindCompanyByEmail(ctx context.Context, email string) (*models.Company, error)
	FindCompanyByID(ctx context.Context, id string) (*models.Company, error)
	CompanyExists(ctx context.Context, name, email string) (bool, error)
	UpdateCompany(ctx context.Context, id string, patch CompanyPatch) (*models.Company, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error)
	// AddAppliedJob is idempotent; ErrNotFound when no user has the email.
	AddAppliedJob(ctx context.Context, email, jobID string) error
}

type JobStore interface {
	CreateJob(ctx context.Context, job *models.JobPosting) error
	// GetJob loads the posting with its applications.
	GetJob(ctx context.Context, id string) (*models.JobPosting, error)
	// GetJobWithCompany loads the posting and its owner, without applications.
	GetJobWithCompany(ctx context.Context, id string) (*models.JobPosting, error)
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, filter search.Filter) ([]models.JobPosting, error)
	ListJobsByCompany(ctx context.Context, companyID string) ([]models.JobPosting, error)
	ListJobsWithApplicants(ctx context.Context, companyID string) ([]models.JobPosting, error)
	// AddApplication returns ErrDuplicate if the email already applied.
	AddApplication(ctx context.Context, app *models.Application) error
	RemoveApplication(ctx context.Context, jobID, applicationID string) error
}
