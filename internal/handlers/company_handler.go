package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rolejet/RoleJet/internal/auth"
	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/dtos"
	"github.com/rolejet/RoleJet/internal/ratelimit"
	"github.com/rolejet/RoleJet/internal/services"
)

const (
	loginLimit  = 10
	loginWindow = time.Minute
)

type CompanyHandler struct {
	accounts *services.AccountService
	cookies  auth.CookiePolicy
	limiter  ratelimit.Limiter
	log      *slog.Logger
}

func NewCompanyHandler(accounts *services.AccountService, cookies auth.CookiePolicy, limiter ratelimit.Limiter, log *slog.Logger) *CompanyHandler {
	return &CompanyHandler{accounts: accounts, cookies: cookies, limiter: limiter, log: log}
}

// Signup is POST /companySignup (multipart, optional "image" logo).
func (h *CompanyHandler) Signup(c *gin.Context) {
	var req dtos.CompanySignupRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, h.log, common.NewError(common.CodeValidation, "No data received. Check form fields.", err))
		return
	}
	session, err := h.accounts.SignupCompany(c.Request.Context(), req, formFile(c, "image"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	setCookie(c, h.cookies.Session(auth.CompanyCookieName, session.Token))
	c.JSON(http.StatusCreated, gin.H{"newCompany": session.Company, "companyToken": session.Token})
}

func (h *CompanyHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	if !allowLogin(c, h.limiter, "company", req.Email) {
		writeError(c, h.log, common.NewError(common.CodeRateLimited, "Too many login attempts, try again later", nil))
		return
	}
	session, err := h.accounts.LoginCompany(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	setCookie(c, h.cookies.Session(auth.CompanyCookieName, session.Token))
	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successfully",
		"company":      gin.H{"name": session.Company.Name, "email": session.Company.Email},
		"companyToken": session.Token,
	})
}

// Token hands the raw cookie value to the client, which decodes it itself.
func (h *CompanyHandler) Token(c *gin.Context) {
	token, err := c.Cookie(auth.CompanyCookieName)
	if err != nil || token == "" {
		writeError(c, h.log, common.NewError(common.CodeUnauthorized, "You are not authorized", nil))
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *CompanyHandler) Logout(c *gin.Context) {
	setCookie(c, h.cookies.Expired(auth.CompanyCookieName))
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *CompanyHandler) Details(c *gin.Context) {
	var req dtos.CompanyLookupRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	company, err := h.accounts.CompanyByEmail(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) UpdateLogo(c *gin.Context) {
	company, err := h.accounts.UpdateCompanyLogo(c.Request.Context(), currentCompany(c).ID, formFile(c, "image"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile picture updated successfully", "image": company.Image})
}

func (h *CompanyHandler) Update(c *gin.Context) {
	var req dtos.CompanyUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	session, err := h.accounts.UpdateCompany(c.Request.Context(), currentCompany(c), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	setCookie(c, h.cookies.Session(auth.CompanyCookieName, session.Token))
	company := session.Company
	c.JSON(http.StatusOK, gin.H{
		"message": "Company details updated successfully",
		"company": gin.H{
			"id":       company.ID,
			"name":     company.Name,
			"email":    company.Email,
			"location": company.Location,
			"industry": company.Industry,
		},
	})
}

// allowLogin limits attempts per client IP and account email.
func allowLogin(c *gin.Context, limiter ratelimit.Limiter, domain, email string) bool {
	if limiter == nil {
		return true
	}
	key := "login:" + domain + ":" + c.ClientIP() + ":" + strings.ToLower(strings.TrimSpace(email))
	return limiter.Allow(c.Request.Context(), key, loginLimit, loginWindow)
}
