package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rolejet/RoleJet/internal/dtos"
	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/repository"
	"github.com/rolejet/RoleJet/internal/search"
)

type JobService struct {
	jobs      repository.JobStore
	companies repository.CompanyStore
	log       *slog.Logger
}

func NewJobService(jobs repository.JobStore, companies repository.CompanyStore, log *slog.Logger) *JobService {
	return &JobService{jobs: jobs, companies: companies, log: log}
}

// Create posts a job on behalf of company. The posting row carries the
// owner foreign key, so no second write to the company is needed.
func (s *JobService) Create(ctx context.Context, company *models.Company, req dtos.JobPostRequest) (*models.JobPosting, error) {
	if err := dtos.Validate(req, "All job fields are required"); err != nil {
		return nil, err
	}
	job := &models.JobPosting{
		CompanyID:      company.ID,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Role:           strings.TrimSpace(req.Role),
		RequiredSkills: []string(req.RequiredSkills),
		Experience:     strings.TrimSpace(req.Experience),
		JobType:        strings.TrimSpace(req.JobType),
		Location:       strings.TrimSpace(req.Location),
		WorkMode:       strings.TrimSpace(req.WorkMode),
	}
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, storeError(err, "Company not found")
	}
	s.log.Info("job posted", "job_id", job.ID, "company_id", company.ID)
	return job, nil
}

// Get returns the posting with its applications, for the owning company.
func (s *JobService) Get(ctx context.Context, id string) (*models.JobPosting, error) {
	job, err := s.jobs.GetJob(ctx, id)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	return job, nil
}

// GetWithCompany returns the posting and its owner, without applications.
func (s *JobService) GetWithCompany(ctx context.Context, id string) (*models.JobPosting, error) {
	job, err := s.jobs.GetJobWithCompany(ctx, id)
	if err != nil {
		return nil, storeError(err, "Job detail not found")
	}
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.jobs.DeleteJob(ctx, id); err != nil {
		return storeError(err, "Job not found")
	}
	s.log.Info("job deleted", "job_id", id)
	return nil
}

func (s *JobService) ListByCompanyEmail(ctx context.Context, email string) ([]models.JobPosting, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, missing("Email is required")
	}
	company, err := s.companies.FindCompanyByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "Company not found")
	}
	jobs, err := s.jobs.ListJobsByCompany(ctx, company.ID)
	if err != nil {
		return nil, internal(err)
	}
	return jobs, nil
}

func (s *JobService) ListAll(ctx context.Context) ([]models.JobPosting, error) {
	return s.Search(ctx, search.Filter{})
}

// Search returns every posting matching filter in insertion order. An empty
// result is not an error.
func (s *JobService) Search(ctx context.Context, filter search.Filter) ([]models.JobPosting, error) {
	jobs, err := s.jobs.ListJobs(ctx, filter.Normalize())
	if err != nil {
		return nil, internal(err)
	}
	return jobs, nil
}

func (s *JobService) ListWithApplicants(ctx context.Context, companyID string) ([]models.JobPosting, error) {
	jobs, err := s.jobs.ListJobsWithApplicants(ctx, companyID)
	if err != nil {
		return nil, internal(err)
	}
	return jobs, nil
}
