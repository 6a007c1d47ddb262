package services

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/rolejet/RoleJet/internal/auth"
	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/dtos"
	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/notify"
	"github.com/rolejet/RoleJet/internal/repository"
	"github.com/rolejet/RoleJet/internal/uploads"
)

const notifyTimeout = 30 * time.Second

type ApplicationService struct {
	jobs      repository.JobStore
	users     repository.UserStore
	companies repository.CompanyStore
	files     FileStore
	notifier  notify.Notifier
	log       *slog.Logger
	now       func() time.Time

	pending sync.WaitGroup
}

func NewApplicationService(jobs repository.JobStore, users repository.UserStore, companies repository.CompanyStore, files FileStore, notifier notify.Notifier, log *slog.Logger) *ApplicationService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &ApplicationService{
		jobs:      jobs,
		users:     users,
		companies: companies,
		files:     files,
		notifier:  notifier,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func alreadyApplied() error {
	return common.NewError(common.CodeAlreadyApplied,
		"You have already applied for this job. Multiple applications are not allowed.", common.ErrAlreadyApplied)
}

// Apply moves (job, applicant email) from not applied to applied. The
// posting's unique (job, email) index decides concurrent duplicates; the
// pre-check only spares the resume upload.
func (s *ApplicationService) Apply(ctx context.Context, applicant *auth.UserClaims, req dtos.ApplyRequest, resume *multipart.FileHeader) (*models.Application, error) {
	req.JobID = strings.TrimSpace(req.JobID)
	req.PhoneNo = strings.TrimSpace(req.PhoneNo)
	const missingMessage = "All fields including CV are required"
	if err := dtos.Validate(req, missingMessage); err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, missing(missingMessage)
	}

	job, err := s.jobs.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	if job.HasApplicant(applicant.Email) {
		return nil, alreadyApplied()
	}

	cv, err := s.files.Save(resume, uploads.KindResume)
	if err != nil {
		return nil, err
	}
	app := &models.Application{
		JobPostingID: job.ID,
		Username:     applicant.Username,
		Email:        applicant.Email,
		CV:           cv,
		Description:  strings.TrimSpace(req.Description),
		PhoneNo:      req.PhoneNo,
		AppliedAt:    s.now(),
	}
	if applicant.UserID != "" {
		userID := applicant.UserID
		app.UserID = &userID
	}
	if err := s.jobs.AddApplication(ctx, app); err != nil {
		s.discard(cv)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, alreadyApplied()
		}
		return nil, storeError(err, "Job not found")
	}

	if err := s.users.AddAppliedJob(ctx, applicant.Email, job.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("failed to link applied job to user", "job_id", job.ID, "error", err)
	}
	s.log.Info("application submitted", "job_id", job.ID, "application_id", app.ID)
	s.notifyCompany(job, app)
	return app, nil
}

// notifyCompany runs in the background; the applicant never waits on mail.
func (s *ApplicationService) notifyCompany(job *models.JobPosting, app *models.Application) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		company, err := s.companies.FindCompanyByID(ctx, job.CompanyID)
		if err != nil {
			s.log.Warn("skipping application notice", "job_id", job.ID, "error", err)
			return
		}
		notice := notify.ApplicationNotice{
			CompanyName:    company.Name,
			CompanyEmail:   company.Email,
			JobTitle:       job.Title,
			ApplicantName:  app.Username,
			ApplicantEmail: app.Email,
			Phone:          app.PhoneNo,
			ResumeURL:      app.CV,
			AppliedAt:      app.AppliedAt,
		}
		if err := s.notifier.ApplicationReceived(ctx, notice); err != nil {
			s.log.Error("application notice failed", "job_id", job.ID, "error", err)
		}
	}()
}

// Wait blocks until in-flight notifications finish.
func (s *ApplicationService) Wait() {
	s.pending.Wait()
}

// DeleteApplicant removes one application. Only the owning company may do
// so; the applicant is free to apply again afterwards.
func (s *ApplicationService) DeleteApplicant(ctx context.Context, company *models.Company, jobID, applicationID string) (*models.JobPosting, error) {
	jobID = strings.TrimSpace(jobID)
	if err := dtos.Validate(dtos.DeleteApplicantRequest{JobID: jobID}, "Job id is required"); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	if job.CompanyID != company.ID {
		return nil, common.NewError(common.CodeForbidden, "You can only manage applicants of your own jobs", nil)
	}
	if err := s.jobs.RemoveApplication(ctx, jobID, applicationID); err != nil {
		return nil, storeError(err, "Applicant not found")
	}
	s.log.Info("application removed", "job_id", jobID, "application_id", applicationID)
	job, err = s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	return job, nil
}

func (s *ApplicationService) discard(path string) {
	if err := s.files.Remove(path); err != nil {
		s.log.Warn("failed to remove orphaned upload", "path", path, "error", err)
	}
}
