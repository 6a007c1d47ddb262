package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/dtos"
)

func TestSignupCompanyValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dtos.CompanySignupRequest)
		kind   error
	}{
		{"bad domain", func(r *dtos.CompanySignupRequest) { r.Email = "a@badhost.com" }, common.ErrInvalidEmailDomain},
		{"short password", func(r *dtos.CompanySignupRequest) { r.Password, r.ConfirmPassword = "short", "short" }, common.ErrPasswordPolicy},
		{"mismatch", func(r *dtos.CompanySignupRequest) { r.ConfirmPassword = "Abcdefg1@" }, common.ErrPasswordMismatch},
		{"missing industry", func(r *dtos.CompanySignupRequest) { r.Industry = "" }, common.ErrMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := validCompanySignup()
			tt.mutate(&req)
			_, err := f.accounts.SignupCompany(context.Background(), req, nil)
			assertKind(t, err, tt.kind, common.CodeValidation)
		})
	}
}

func TestSignupCompanyStoresHashAndIssuesToken(t *testing.T) {
	f := newFixture(t)
	logo := &multipart.FileHeader{Filename: "logo.png"}
	session, err := f.accounts.SignupCompany(context.Background(), validCompanySignup(), logo)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if session.Company.PasswordHash == "" || session.Company.PasswordHash == "Abcdefg1!" {
		t.Fatalf("password was not hashed")
	}
	if session.Company.Image != "/uploads/logo.png" {
		t.Fatalf("logo not stored: %q", session.Company.Image)
	}
	claims, err := f.tokens.ParseCompany(session.Token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if claims.Email != "a@gmail.com" || claims.CompanyID != session.Company.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}

	dupName := validCompanySignup()
	dupName.Email = "b@gmail.com"
	_, err = f.accounts.SignupCompany(context.Background(), dupName, nil)
	assertKind(t, err, common.ErrDuplicateAccount, common.CodeConflict)
}

func TestCompanyLoginRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.company(t, "Acme", "a@gmail.com")
	ctx := context.Background()

	session, err := f.accounts.LoginCompany(ctx, dtos.LoginRequest{Email: "a@gmail.com", Password: "Abcdefg1!"})
	if err != nil || session.Token == "" {
		t.Fatalf("login: %v", err)
	}
	_, err = f.accounts.LoginCompany(ctx, dtos.LoginRequest{Email: "a@gmail.com", Password: "Wrongpass1!"})
	assertKind(t, err, nil, common.CodeUnauthorized)
	_, err = f.accounts.LoginCompany(ctx, dtos.LoginRequest{Email: "nobody@gmail.com", Password: "Abcdefg1!"})
	assertKind(t, err, nil, common.CodeNotFound)
}

func TestUserSignupAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.accounts.SignupUser(ctx, dtos.UserSignupRequest{
		Username: "ann", Email: "ann@b.com", Password: "abcdefg?", ConformPassword: "abcdefg?",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if session.User.PasswordHash == "abcdefg?" {
		t.Fatalf("password was not hashed")
	}

	_, err = f.accounts.SignupUser(ctx, dtos.UserSignupRequest{
		Username: "ann2", Email: "ann@b.com", Password: "abcdefg?", ConfirmPassword: "abcdefg?",
	})
	assertKind(t, err, common.ErrDuplicateAccount, common.CodeConflict)

	_, err = f.accounts.SignupUser(ctx, dtos.UserSignupRequest{
		Username: "bob", Email: "bob@b.com", Password: "abcdefg^", ConfirmPassword: "abcdefg^",
	})
	assertKind(t, err, common.ErrPasswordPolicy, common.CodeValidation)

	login, err := f.accounts.LoginUser(ctx, dtos.LoginRequest{Email: "ann@b.com", Password: "abcdefg?"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := f.tokens.ParseUser(login.Token)
	if err != nil || claims.Username != "ann" || claims.UserID != session.User.ID {
		t.Fatalf("unexpected claims %+v, %v", claims, err)
	}
	_, err = f.accounts.LoginUser(ctx, dtos.LoginRequest{Email: "ann@b.com", Password: "nope@1234"})
	assertKind(t, err, nil, common.CodeUnauthorized)
}

func TestUpdateCompany(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.company(t, "Acme", "a@gmail.com")
	f.company(t, "Globex", "g@gmail.com")

	session, err := f.accounts.UpdateCompany(ctx, acme, dtos.CompanyUpdateRequest{Email: "new@yahoo.com", Location: " Delhi "})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if session.Company.Email != "new@yahoo.com" || session.Company.Location != "Delhi" || session.Company.Industry != "Software" {
		t.Fatalf("unexpected company %+v", session.Company)
	}
	claims, err := f.tokens.ParseCompany(session.Token)
	if err != nil || claims.Email != "new@yahoo.com" {
		t.Fatalf("token not reissued: %+v %v", claims, err)
	}

	_, err = f.accounts.UpdateCompany(ctx, acme, dtos.CompanyUpdateRequest{Name: "Globex"})
	assertKind(t, err, common.ErrDuplicateAccount, common.CodeConflict)
	_, err = f.accounts.UpdateCompany(ctx, acme, dtos.CompanyUpdateRequest{Email: "x@corp.io"})
	assertKind(t, err, common.ErrInvalidEmailDomain, common.CodeValidation)
	_, err = f.accounts.UpdateCompany(ctx, acme, dtos.CompanyUpdateRequest{Password: "weak"})
	assertKind(t, err, common.ErrPasswordPolicy, common.CodeValidation)

	if _, err := f.accounts.UpdateCompany(ctx, acme, dtos.CompanyUpdateRequest{Password: "Newpass1!"}); err != nil {
		t.Fatalf("password update: %v", err)
	}
	if _, err := f.accounts.LoginCompany(ctx, dtos.LoginRequest{Email: "new@yahoo.com", Password: "Newpass1!"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUserProfileFlows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "ann", "ann@b.com")
	f.user(t, "bob", "bob@b.com")

	user, err := f.accounts.SetupProfile(ctx, ann.UserID, dtos.ProfileSetupRequest{Age: "27", Preference: "Remote"}, &multipart.FileHeader{Filename: "me.png"})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if user.Age == nil || *user.Age != 27 || user.Preference != "Remote" || user.ProfilePic != "/uploads/me.png" {
		t.Fatalf("unexpected profile %+v", user)
	}
	_, err = f.accounts.SetupProfile(ctx, ann.UserID, dtos.ProfileSetupRequest{Age: "old"}, nil)
	assertKind(t, err, common.ErrFormat, common.CodeValidation)

	_, err = f.accounts.EditUserProfile(ctx, ann.UserID, dtos.UserProfileEditRequest{Email: "bob@b.com"})
	assertKind(t, err, common.ErrDuplicateAccount, common.CodeConflict)

	session, err := f.accounts.EditUserProfile(ctx, ann.UserID, dtos.UserProfileEditRequest{Username: "annie"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if session.User.Username != "annie" || session.User.Preference != "Remote" {
		t.Fatalf("blank fields must be left alone: %+v", session.User)
	}

	user, err = f.accounts.UpdateUserPicture(ctx, ann.UserID, &multipart.FileHeader{Filename: "new.png"})
	if err != nil || user.ProfilePic != "/uploads/new.png" {
		t.Fatalf("picture update: %+v %v", user, err)
	}
	_, err = f.accounts.UpdateUserPicture(ctx, ann.UserID, nil)
	assertKind(t, err, common.ErrMissingFields, common.CodeValidation)
	_, err = f.accounts.UserProfile(ctx, "missing")
	assertKind(t, err, nil, common.CodeNotFound)
}
