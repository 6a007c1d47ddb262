package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/rolejet/RoleJet/internal/auth"
	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/dtos"
	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/notify"
	"github.com/rolejet/RoleJet/internal/repository/memory"
	"github.com/rolejet/RoleJet/internal/uploads"
)

type fakeFiles struct {
	mu      sync.Mutex
	saved   []string
	removed []string
	err     error
}

func (f *fakeFiles) Save(fh *multipart.FileHeader, kind uploads.Kind) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	path := "/uploads/" + fh.Filename
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeFiles) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, path)
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.ApplicationNotice
}

func (r *recordingNotifier) ApplicationReceived(_ context.Context, n notify.ApplicationNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return nil
}

type fixture struct {
	store        *memory.Store
	files        *fakeFiles
	notifier     *recordingNotifier
	tokens       *auth.TokenIssuer
	accounts     *AccountService
	jobs         *JobService
	applications *ApplicationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	files := &fakeFiles{}
	notifier := &recordingNotifier{}
	tokens := auth.NewTokenIssuer("test-secret", 30*24*time.Hour)
	return &fixture{
		store:        store,
		files:        files,
		notifier:     notifier,
		tokens:       tokens,
		accounts:     NewAccountService(store, store, tokens, files, log),
		jobs:         NewJobService(store, store, log),
		applications: NewApplicationService(store, store, store, files, notifier, log),
	}
}

func validCompanySignup() dtos.CompanySignupRequest {
	return dtos.CompanySignupRequest{
		Name:            "Acme",
		Email:           "a@gmail.com",
		Password:        "Abcdefg1!",
		ConfirmPassword: "Abcdefg1!",
		Industry:        "Software",
		Location:        "Pune",
	}
}

func (f *fixture) company(t *testing.T, name, email string) *models.Company {
	t.Helper()
	req := validCompanySignup()
	req.Name, req.Email = name, email
	session, err := f.accounts.SignupCompany(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("signup company: %v", err)
	}
	return session.Company
}

func (f *fixture) user(t *testing.T, username, email string) *auth.UserClaims {
	t.Helper()
	session, err := f.accounts.SignupUser(context.Background(), dtos.UserSignupRequest{
		Username: username, Email: email, Password: "abcdef@1", ConfirmPassword: "abcdef@1",
	})
	if err != nil {
		t.Fatalf("signup user: %v", err)
	}
	claims, err := f.tokens.ParseUser(session.Token)
	if err != nil {
		t.Fatalf("parse user token: %v", err)
	}
	return claims
}

func (f *fixture) job(t *testing.T, company *models.Company, title, workMode string) *models.JobPosting {
	t.Helper()
	job, err := f.jobs.Create(context.Background(), company, dtos.JobPostRequest{
		Title:          title,
		Description:    "Build and run services",
		RequiredSkills: dtos.SkillList{"Go", "SQL"},
		Experience:     "2 years",
		JobType:        "Full-time",
		Location:       "Pune",
		WorkMode:       workMode,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func assertKind(t *testing.T, err error, kind error, code common.Code) {
	t.Helper()
	if kind != nil && !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	if !common.Is(err, code) {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}
