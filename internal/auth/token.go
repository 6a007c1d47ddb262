package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rolejet/RoleJet/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Each session domain signs its own audience so a token from one domain is
// never accepted by the other.
const (
	companyAudience = "company"
	userAudience    = "user"
)

// CompanyClaims is the company session payload.
type CompanyClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	CompanyID string `json:"companyid"`
	jwt.RegisteredClaims
}

// UserClaims is the job seeker session payload.
type UserClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	UserID   string `json:"userid"`
	jwt.RegisteredClaims
}

// TokenIssuer signs both session domains with one secret and one lifetime.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) IssueCompany(company *models.Company) (string, error) {
	claims := CompanyClaims{
		Email:            company.Email,
		Name:             company.Name,
		CompanyID:        company.ID,
		RegisteredClaims: i.registered(company.ID, companyAudience),
	}
	return i.sign(claims)
}

func (i *TokenIssuer) IssueUser(user *models.User) (string, error) {
	claims := UserClaims{
		Email:            user.Email,
		Username:         user.Username,
		UserID:           user.ID,
		RegisteredClaims: i.registered(user.ID, userAudience),
	}
	return i.sign(claims)
}

func (i *TokenIssuer) ParseCompany(token string) (*CompanyClaims, error) {
	claims := &CompanyClaims{}
	if err := i.parse(token, companyAudience, claims); err != nil {
		return nil, err
	}
	if claims.Email == "" || claims.CompanyID == "" {
		return nil, fmt.Errorf("%w: missing identity", ErrInvalidToken)
	}
	return claims, nil
}

func (i *TokenIssuer) ParseUser(token string) (*UserClaims, error) {
	claims := &UserClaims{}
	if err := i.parse(token, userAudience, claims); err != nil {
		return nil, err
	}
	if claims.Email == "" || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing identity", ErrInvalidToken)
	}
	return claims, nil
}

func (i *TokenIssuer) registered(subject, audience string) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
}

func (i *TokenIssuer) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *TokenIssuer) parse(token, audience string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
