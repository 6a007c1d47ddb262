package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolejet/RoleJet/internal/auth"
	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/dtos"
	"github.com/rolejet/RoleJet/internal/ratelimit"
	"github.com/rolejet/RoleJet/internal/services"
)

type UserHandler struct {
	accounts *services.AccountService
	cookies  auth.CookiePolicy
	limiter  ratelimit.Limiter
	log      *slog.Logger
}

func NewUserHandler(accounts *services.AccountService, cookies auth.CookiePolicy, limiter ratelimit.Limiter, log *slog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, cookies: cookies, limiter: limiter, log: log}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req dtos.UserSignupRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	session, err := h.accounts.SignupUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	setCookie(c, h.cookies.Session(auth.UserCookieName, session.Token))
	c.JSON(http.StatusCreated, session.User)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	if !allowLogin(c, h.limiter, "user", req.Email) {
		writeError(c, h.log, common.NewError(common.CodeRateLimited, "Too many login attempts, try again later", nil))
		return
	}
	session, err := h.accounts.LoginUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	setCookie(c, h.cookies.Session(auth.UserCookieName, session.Token))
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": session.User})
}

func (h *UserHandler) Logout(c *gin.Context) {
	setCookie(c, h.cookies.Expired(auth.UserCookieName))
	c.JSON(http.StatusOK, gin.H{"message": "successfully logout"})
}

// Token is GET /getCookie, the user-side twin of /companyToken.
func (h *UserHandler) Token(c *gin.Context) {
	token, _ := c.Cookie(auth.UserCookieName)
	c.JSON(http.StatusOK, token)
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.accounts.UserProfile(c.Request.Context(), currentUser(c).UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SetupProfile(c *gin.Context) {
	var req dtos.ProfileSetupRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	user, err := h.accounts.SetupProfile(c.Request.Context(), currentUser(c).UserID, req, formFile(c, "profilePic"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (h *UserHandler) EditProfile(c *gin.Context) {
	var req dtos.UserProfileEditRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	session, err := h.accounts.EditUserProfile(c.Request.Context(), currentUser(c).UserID, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	setCookie(c, h.cookies.Session(auth.UserCookieName, session.Token))
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": session.User})
}

func (h *UserHandler) EditPicture(c *gin.Context) {
	user, err := h.accounts.UpdateUserPicture(c.Request.Context(), currentUser(c).UserID, formFile(c, "image"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile picture updated successfully", "profilePic": user.ProfilePic})
}
