package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rolejet/RoleJet/internal/auth"
	"github.com/rolejet/RoleJet/internal/ratelimit"
	"github.com/rolejet/RoleJet/internal/services"
	"github.com/rolejet/RoleJet/internal/uploads"
)

type RouterOptions struct {
	Accounts     *services.AccountService
	Jobs         *services.JobService
	Applications *services.ApplicationService
	Interviews   *services.InterviewService
	Tokens       *auth.TokenIssuer
	Cookies      auth.CookiePolicy
	Limiter      ratelimit.Limiter
	Log          *slog.Logger

	CORSOrigin     string
	UploadDir      string
	MaxUploadBytes int64
	// Ping backs /health; nil reports healthy.
	Ping func(context.Context) error
}

// NewRouter mounts every route under /job, plus /health and the static
// upload directory.
func NewRouter(o RouterOptions) *gin.Engine {
	r := gin.Default()
	if o.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = o.MaxUploadBytes
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{o.CORSOrigin}
	config.AllowCredentials = true
	config.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.MaxAge = 12 * time.Hour
	r.Use(cors.New(config))

	r.GET("/health", HealthCheck(o.Ping))
	r.Static(uploads.PublicPrefix, o.UploadDir)

	mw := NewMiddleware(o.Tokens, o.Accounts, o.Log)
	companies := NewCompanyHandler(o.Accounts, o.Cookies, o.Limiter, o.Log)
	users := NewUserHandler(o.Accounts, o.Cookies, o.Limiter, o.Log)
	jobs := NewJobHandler(o.Jobs, o.Applications, o.Interviews, o.Limiter, o.Log)
	companyAuth, userAuth := mw.CompanyAuth(), mw.UserAuth()

	api := r.Group("/job")
	{
		// Company routes
		api.POST("/companySignup", companies.Signup)
		api.POST("/companyLogin", companies.Login)
		api.GET("/companyToken", companies.Token)
		api.GET("/logout", companies.Logout)
		api.POST("/companyDetails", companies.Details)
		api.PUT("/companyUpdateProfilePic", companyAuth, companies.UpdateLogo)
		api.PUT("/companyUpdate", companyAuth, companies.Update)

		api.POST("/postJob", companyAuth, jobs.PostJob)
		api.POST("/getCompanyJob", jobs.CompanyJobs)
		api.GET("/jobDetail/:id", companyAuth, jobs.JobDetail)
		api.GET("/jobApplicants", companyAuth, jobs.Applicants)
		api.DELETE("/jobDelete/:id", jobs.DeleteJob)
		api.DELETE("/deleteApplicants/:id", companyAuth, jobs.DeleteApplicant)

		// User routes
		api.POST("/signup", users.Signup)
		api.POST("/login", users.Login)
		api.DELETE("/logout", users.Logout)
		api.GET("/getCookie", userAuth, users.Token)
		api.GET("/userProfilePage", userAuth, users.Profile)
		api.PUT("/setup-profile", userAuth, users.SetupProfile)
		api.PUT("/userProfileEdit", userAuth, users.EditProfile)
		api.PUT("/userProfilePicEdit", userAuth, users.EditPicture)

		api.GET("/jobs", userAuth, jobs.AllJobs)
		api.GET("/jobs/search", userAuth, jobs.Search)
		api.GET("/jobs/:id/interview-questions", userAuth, jobs.InterviewQuestions)
		api.POST("/userJobDetails/:id", userAuth, jobs.UserJobDetail)
		api.POST("/userJobApply", userAuth, jobs.Apply)
	}
	return r
}
