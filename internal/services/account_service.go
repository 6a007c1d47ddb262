package services

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/rolejet/RoleJet/internal/auth"
	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/dtos"
	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/repository"
	"github.com/rolejet/RoleJet/internal/uploads"
)

// AllowedCompanyDomains lists the mail providers companies may register with.
var AllowedCompanyDomains = []string{"gmail.com", "yahoo.com", "outlook.com"}

type CompanySession struct {
	Company *models.Company
	Token   string
}

type UserSession struct {
	User  *models.User
	Token string
}

type AccountService struct {
	companies repository.CompanyStore
	users     repository.UserStore
	tokens    *auth.TokenIssuer
	files     FileStore
	log       *slog.Logger
}

func NewAccountService(companies repository.CompanyStore, users repository.UserStore, tokens *auth.TokenIssuer, files FileStore, log *slog.Logger) *AccountService {
	return &AccountService{companies: companies, users: users, tokens: tokens, files: files, log: log}
}

func (s *AccountService) SignupCompany(ctx context.Context, req dtos.CompanySignupRequest, logo *multipart.FileHeader) (*CompanySession, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := dtos.Validate(req, "All fields are required"); err != nil {
		return nil, err
	}
	if err := checkPassword(auth.CompanyPasswordPolicy, req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}
	if err := checkCompanyDomain(req.Email); err != nil {
		return nil, err
	}
	exists, err := s.companies.CompanyExists(ctx, req.Name, req.Email)
	if err != nil {
		return nil, internal(err)
	}
	if exists {
		return nil, duplicateAccount("Company already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internal(err)
	}
	company := &models.Company{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Industry:     strings.TrimSpace(req.Industry),
		Location:     strings.TrimSpace(req.Location),
	}
	if logo != nil {
		if company.Image, err = s.files.Save(logo, uploads.KindImage); err != nil {
			return nil, err
		}
	}
	if err := s.companies.CreateCompany(ctx, company); err != nil {
		s.discard(company.Image)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateAccount("Company already exists")
		}
		return nil, internal(err)
	}
	token, err := s.tokens.IssueCompany(company)
	if err != nil {
		return nil, internal(err)
	}
	s.log.Info("company registered", "company_id", company.ID)
	return &CompanySession{Company: company, Token: token}, nil
}

func (s *AccountService) SignupUser(ctx context.Context, req dtos.UserSignupRequest) (*UserSession, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := dtos.Validate(req, "All fields are required"); err != nil {
		return nil, err
	}
	if req.Confirmation() == "" {
		return nil, missing("All fields are required")
	}
	if err := checkPassword(auth.UserPasswordPolicy, req.Password, req.Confirmation()); err != nil {
		return nil, err
	}
	if _, err := s.users.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, duplicateAccount("Email is already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internal(err)
	}
	user := &models.User{Username: req.Username, Email: req.Email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateAccount("Email is already taken")
		}
		return nil, internal(err)
	}
	token, err := s.tokens.IssueUser(user)
	if err != nil {
		return nil, internal(err)
	}
	s.log.Info("user registered", "user_id", user.ID)
	return &UserSession{User: user, Token: token}, nil
}

func (s *AccountService) LoginCompany(ctx context.Context, req dtos.LoginRequest) (*CompanySession, error) {
	if err := dtos.Validate(req, "Email and password are required"); err != nil {
		return nil, err
	}
	company, err := s.companies.FindCompanyByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, storeError(err, "Company not found")
	}
	if err := verifyPassword(company.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueCompany(company)
	if err != nil {
		return nil, internal(err)
	}
	return &CompanySession{Company: company, Token: token}, nil
}

func (s *AccountService) LoginUser(ctx context.Context, req dtos.LoginRequest) (*UserSession, error) {
	if err := dtos.Validate(req, "Email and password are required"); err != nil {
		return nil, err
	}
	user, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	if err := verifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueUser(user)
	if err != nil {
		return nil, internal(err)
	}
	return &UserSession{User: user, Token: token}, nil
}

func (s *AccountService) CompanyByEmail(ctx context.Context, email string) (*models.Company, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, missing("Email is required")
	}
	company, err := s.companies.FindCompanyByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "Company not found")
	}
	return company, nil
}

func (s *AccountService) CompanyByID(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.companies.FindCompanyByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Company not found")
	}
	return company, nil
}

// UpdateCompany applies the non-blank fields of req and reissues the session
// token so it carries the new name and email.
func (s *AccountService) UpdateCompany(ctx context.Context, company *models.Company, req dtos.CompanyUpdateRequest) (*CompanySession, error) {
	patch := repository.CompanyPatch{
		Name:     optional(req.Name),
		Email:    optional(req.Email),
		Location: optional(req.Location),
		Industry: optional(req.Industry),
	}
	if patch.Email != nil {
		if err := checkCompanyDomain(*patch.Email); err != nil {
			return nil, err
		}
	}
	if req.Password != "" {
		if !auth.CompanyPasswordPolicy.Allows(req.Password) {
			return nil, policyViolation(auth.CompanyPasswordPolicy)
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, internal(err)
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.companies.UpdateCompany(ctx, company.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateAccount("Company name or email already in use")
		}
		return nil, storeError(err, "Company not found")
	}
	token, err := s.tokens.IssueCompany(updated)
	if err != nil {
		return nil, internal(err)
	}
	return &CompanySession{Company: updated, Token: token}, nil
}

func (s *AccountService) UpdateCompanyLogo(ctx context.Context, companyID string, logo *multipart.FileHeader) (*models.Company, error) {
	if logo == nil {
		return nil, missing("No file uploaded")
	}
	path, err := s.files.Save(logo, uploads.KindImage)
	if err != nil {
		return nil, err
	}
	updated, err := s.companies.UpdateCompany(ctx, companyID, repository.CompanyPatch{Image: &path})
	if err != nil {
		s.discard(path)
		return nil, storeError(err, "Company not found")
	}
	return updated, nil
}

func (s *AccountService) UserProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// SetupProfile fills the profile attributes collected after signup. A missing
// picture keeps the current one.
func (s *AccountService) SetupProfile(ctx context.Context, userID string, req dtos.ProfileSetupRequest, picture *multipart.FileHeader) (*models.User, error) {
	if err := dtos.Validate(req, "All fields are required"); err != nil {
		return nil, err
	}
	patch := repository.UserPatch{
		Experience: optional(req.Experience),
		LookingFor: optional(req.LookingFor),
		Available:  optional(req.Available),
		Preference: optional(req.Preference),
		Location:   optional(req.Location),
	}
	if age := strings.TrimSpace(req.Age); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil || n < 0 || n > 150 {
			return nil, common.NewError(common.CodeValidation, "Age must be a whole number", common.ErrFormat)
		}
		patch.Age = &n
	}
	if picture != nil {
		path, err := s.files.Save(picture, uploads.KindImage)
		if err != nil {
			return nil, err
		}
		patch.ProfilePic = &path
	}
	user, err := s.users.UpdateUser(ctx, userID, patch)
	if err != nil {
		if patch.ProfilePic != nil {
			s.discard(*patch.ProfilePic)
		}
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// EditUserProfile applies the non-blank fields of req. The returned session
// carries a fresh token because the username and email live in the claims.
func (s *AccountService) EditUserProfile(ctx context.Context, userID string, req dtos.UserProfileEditRequest) (*UserSession, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := dtos.Validate(req, "All fields are required"); err != nil {
		return nil, err
	}
	patch := repository.UserPatch{
		Username:   optional(req.Username),
		Email:      optional(req.Email),
		Location:   optional(req.Location),
		Preference: optional(req.Preference),
		LookingFor: optional(req.LookingFor),
	}
	user, err := s.users.UpdateUser(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateAccount("Email is already taken")
		}
		return nil, storeError(err, "User not found")
	}
	token, err := s.tokens.IssueUser(user)
	if err != nil {
		return nil, internal(err)
	}
	return &UserSession{User: user, Token: token}, nil
}

func (s *AccountService) UpdateUserPicture(ctx context.Context, userID string, picture *multipart.FileHeader) (*models.User, error) {
	if picture == nil {
		return nil, missing("No file uploaded")
	}
	path, err := s.files.Save(picture, uploads.KindImage)
	if err != nil {
		return nil, err
	}
	user, err := s.users.UpdateUser(ctx, userID, repository.UserPatch{ProfilePic: &path})
	if err != nil {
		s.discard(path)
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

func (s *AccountService) discard(path string) {
	if path == "" {
		return
	}
	if err := s.files.Remove(path); err != nil {
		s.log.Warn("failed to remove orphaned upload", "path", path, "error", err)
	}
}

func checkPassword(policy auth.PasswordPolicy, password, confirmation string) error {
	if !policy.Allows(password) {
		return policyViolation(policy)
	}
	if password != confirmation {
		return common.NewError(common.CodeValidation, "Passwords do not match", common.ErrPasswordMismatch)
	}
	return nil
}

func policyViolation(policy auth.PasswordPolicy) error {
	return common.NewError(common.CodeValidation, policy.Message, common.ErrPasswordPolicy)
}

func checkCompanyDomain(email string) error {
	at := strings.LastIndex(email, "@")
	if at > 0 {
		domain := strings.ToLower(email[at+1:])
		for _, allowed := range AllowedCompanyDomains {
			if domain == allowed {
				return nil
			}
		}
	}
	return common.NewError(common.CodeValidation, "Email must be a valid Gmail, Yahoo, or Outlook address", common.ErrInvalidEmailDomain)
}

func duplicateAccount(message string) error {
	return common.NewError(common.CodeConflict, message, common.ErrDuplicateAccount)
}

// verifyPassword is shared by both login flows so they fail the same way.
func verifyPassword(hash, password string) error {
	ok, err := auth.ComparePassword(hash, password)
	if err != nil {
		return internal(err)
	}
	if !ok {
		return common.NewError(common.CodeUnauthorized, "Invalid credentials", nil)
	}
	return nil
}
