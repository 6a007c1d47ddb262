package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/rolejet/RoleJet/internal/auth"
	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/models"
	"github.com/rolejet/RoleJet/internal/services"
)

const (
	companyKey = "company"
	userKey    = "user"
)

type Middleware struct {
	tokens   *auth.TokenIssuer
	accounts *services.AccountService
	log      *slog.Logger
}

func NewMiddleware(tokens *auth.TokenIssuer, accounts *services.AccountService, log *slog.Logger) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts, log: log}
}

// CompanyAuth verifies the company cookie and reloads the company, so a
// company whose email changed or vanished loses access at once.
func (m *Middleware) CompanyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CompanyCookieName)
		if err != nil || token == "" {
			writeError(c, m.log, common.NewError(common.CodeUnauthorized, "No token found", nil))
			return
		}
		claims, err := m.tokens.ParseCompany(token)
		if err != nil {
			writeError(c, m.log, common.NewError(common.CodeUnauthorized, "Unauthorized", err))
			return
		}
		company, err := m.accounts.CompanyByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			writeError(c, m.log, err)
			return
		}
		if company.ID != claims.CompanyID {
			writeError(c, m.log, common.NewError(common.CodeUnauthorized, "Unauthorized", nil))
			return
		}
		c.Set(companyKey, company)
		c.Next()
	}
}

// UserAuth trusts the verified token payload without a store round trip.
func (m *Middleware) UserAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.UserCookieName)
		if err != nil || token == "" {
			writeError(c, m.log, common.NewError(common.CodeUnauthorized, "Unauthorized", nil))
			return
		}
		claims, err := m.tokens.ParseUser(token)
		if err != nil {
			writeError(c, m.log, common.NewError(common.CodeUnauthorized, "Invalid token", err))
			return
		}
		c.Set(userKey, claims)
		c.Next()
	}
}

func currentCompany(c *gin.Context) *models.Company {
	return c.MustGet(companyKey).(*models.Company)
}

func currentUser(c *gin.Context) *auth.UserClaims {
	return c.MustGet(userKey).(*auth.UserClaims)
}
