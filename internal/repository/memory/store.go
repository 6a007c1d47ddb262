// Package memory implements the repository stores on top of maps. It honours
// the same uniqueness rules as the postgres schema.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/repository"
	"github.com/rolejet/RoleJet/internal/search"
)

type Store struct {
	mu        sync.Mutex
	companies map[string]*models.Company
	users     map[string]*models.User
	jobs      map[string]*models.JobPosting
	seq       int64
	order     map[string]int64
	applied   map[string]map[string]struct{}
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		companies: make(map[string]*models.Company),
		users:     make(map[string]*models.User),
		jobs:      make(map[string]*models.JobPosting),
		order:     make(map[string]int64),
		applied:   make(map[string]map[string]struct{}),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
}

func duplicate(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
}

func (s *Store) CreateCompany(ctx context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.companies {
		if existing.Email == company.Email || existing.Name == company.Name {
			return duplicate("create company")
		}
	}
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	now := s.now()
	company.CreatedAt, company.UpdatedAt = now, now
	stored := *company
	stored.Jobs = nil
	s.companies[company.ID] = &stored
	return nil
}

func (s *Store) FindCompanyByEmail(ctx context.Context, email string) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, company := range s.companies {
		if company.Email == email {
			clone := *company
			return &clone, nil
		}
	}
	return nil, notFound("find company by email")
}

func (s *Store) FindCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	company, ok := s.companies[id]
	if !ok {
		return nil, notFound("find company")
	}
	clone := *company
	return &clone, nil
}

func (s *Store) CompanyExists(ctx context.Context, name, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, company := range s.companies {
		if company.Name == name || company.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateCompany(ctx context.Context, id string, patch repository.CompanyPatch) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	company, ok := s.companies[id]
	if !ok {
		return nil, notFound("update company")
	}
	for otherID, other := range s.companies {
		if otherID == id {
			continue
		}
		if (patch.Email != nil && other.Email == *patch.Email) || (patch.Name != nil && other.Name == *patch.Name) {
			return nil, duplicate("update company")
		}
	}
	apply(&company.Name, patch.Name)
	apply(&company.Email, patch.Email)
	apply(&company.Location, patch.Location)
	apply(&company.Industry, patch.Industry)
	apply(&company.PasswordHash, patch.PasswordHash)
	apply(&company.Image, patch.Image)
	company.UpdatedAt = s.now()
	clone := *company
	return &clone, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return duplicate("create user")
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	user.AppliedJobIDs = []string{}
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return s.cloneUser(user), nil
		}
	}
	return nil, notFound("find user by email")
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, notFound("find user")
	}
	return s.cloneUser(user), nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch repository.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, notFound("update user")
	}
	if patch.Email != nil {
		for otherID, other := range s.users {
			if otherID != id && other.Email == *patch.Email {
				return nil, duplicate("update user")
			}
		}
	}
	apply(&user.Username, patch.Username)
	apply(&user.Email, patch.Email)
	if patch.Age != nil {
		age := *patch.Age
		user.Age = &age
	}
	apply(&user.ProfilePic, patch.ProfilePic)
	apply(&user.Experience, patch.Experience)
	apply(&user.LookingFor, patch.LookingFor)
	apply(&user.Available, patch.Available)
	apply(&user.Preference, patch.Preference)
	apply(&user.Location, patch.Location)
	user.UpdatedAt = s.now()
	return s.cloneUser(user), nil
}

func (s *Store) AddAppliedJob(ctx context.Context, email, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email != email {
			continue
		}
		if _, ok := s.jobs[jobID]; !ok {
			return notFound("link applied job")
		}
		set, ok := s.applied[user.ID]
		if !ok {
			set = make(map[string]struct{})
			s.applied[user.ID] = set
		}
		set[jobID] = struct{}{}
		return nil
	}
	return notFound("find applicant")
}

func (s *Store) CreateJob(ctx context.Context, job *models.JobPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[job.CompanyID]; !ok {
		return notFound("create job")
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	now := s.now()
	job.CreatedAt, job.UpdatedAt = now, now
	stored := *job
	stored.Company = nil
	stored.Applications = nil
	s.seq++
	s.order[job.ID] = s.seq
	s.jobs[job.ID] = &stored
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, notFound("get job")
	}
	return cloneJob(job, true), nil
}

func (s *Store) GetJobWithCompany(ctx context.Context, id string) (*models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, notFound("get job")
	}
	clone := cloneJob(job, false)
	if company, ok := s.companies[job.CompanyID]; ok {
		owner := *company
		clone.Company = &owner
	}
	return clone, nil
}

func (s *Store) DeleteJob(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return notFound("delete job")
	}
	delete(s.jobs, id)
	delete(s.order, id)
	for _, set := range s.applied {
		delete(set, id)
	}
	return nil
}

func (s *Store) ListJobs(ctx context.Context, filter search.Filter) ([]models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(job *models.JobPosting) bool { return filter.Matches(*job) }, false), nil
}

func (s *Store) ListJobsByCompany(ctx context.Context, companyID string) ([]models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(job *models.JobPosting) bool { return job.CompanyID == companyID }, true), nil
}

func (s *Store) ListJobsWithApplicants(ctx context.Context, companyID string) ([]models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(job *models.JobPosting) bool {
		return job.CompanyID == companyID && len(job.Applications) > 0
	}, true), nil
}

func (s *Store) AddApplication(ctx context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[app.JobPostingID]
	if !ok {
		return notFound("add application")
	}
	if job.HasApplicant(app.Email) {
		return duplicate("add application")
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	job.Applications = append(job.Applications, *app)
	return nil
}

func (s *Store) RemoveApplication(ctx context.Context, jobID, applicationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return notFound("remove application")
	}
	for i, app := range job.Applications {
		if app.ID == applicationID {
			job.Applications = append(job.Applications[:i:i], job.Applications[i+1:]...)
			return nil
		}
	}
	return notFound("remove application")
}

func (s *Store) collect(keep func(*models.JobPosting) bool, withApplications bool) []models.JobPosting {
	jobs := []models.JobPosting{}
	for _, job := range s.jobs {
		if keep(job) {
			jobs = append(jobs, *cloneJob(job, withApplications))
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return s.order[jobs[i].ID] < s.order[jobs[j].ID] })
	return jobs
}

func (s *Store) cloneUser(user *models.User) *models.User {
	clone := *user
	clone.AppliedJobIDs = []string{}
	for jobID := range s.applied[user.ID] {
		clone.AppliedJobIDs = append(clone.AppliedJobIDs, jobID)
	}
	sort.Slice(clone.AppliedJobIDs, func(i, j int) bool {
		return s.order[clone.AppliedJobIDs[i]] < s.order[clone.AppliedJobIDs[j]]
	})
	return &clone
}

func cloneJob(job *models.JobPosting, withApplications bool) *models.JobPosting {
	clone := *job
	clone.RequiredSkills = append([]string(nil), job.RequiredSkills...)
	clone.Applications = nil
	if withApplications {
		clone.Applications = append([]models.Application(nil), job.Applications...)
	}
	return &clone
}

func apply[T any](field *T, value *T) {
	if value != nil {
		*field = *value
	}
}

var (
	_ repository.CompanyStore = (*Store)(nil)
	_ repository.UserStore    = (*Store)(nil)
	_ repository.JobStore     = (*Store)(nil)
)
