package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/dtos"
	"github.com/rolejet/RoleJet/internal/ratelimit"
	"github.com/rolejet/RoleJet/internal/search"
	"github.com/rolejet/RoleJet/internal/services"
)

const (
	applyLimit  = 3
	applyWindow = time.Minute
)

// JobHandler serves postings, applications and interview practice.
type JobHandler struct {
	jobs         *services.JobService
	applications *services.ApplicationService
	interviews   *services.InterviewService
	limiter      ratelimit.Limiter
	log          *slog.Logger
}

func NewJobHandler(jobs *services.JobService, applications *services.ApplicationService, interviews *services.InterviewService, limiter ratelimit.Limiter, log *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, applications: applications, interviews: interviews, limiter: limiter, log: log}
}

// PostJob is POST /postJob for the signed-in company.
func (h *JobHandler) PostJob(c *gin.Context) {
	var req dtos.JobPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	job, err := h.jobs.Create(c.Request.Context(), currentCompany(c), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) CompanyJobs(c *gin.Context) {
	var req dtos.CompanyLookupRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	jobs, err := h.jobs.ListByCompanyEmail(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) JobDetail(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.jobs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete successfully"})
}

func (h *JobHandler) Applicants(c *gin.Context) {
	jobs, err := h.jobs.ListWithApplicants(c.Request.Context(), currentCompany(c).ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// DeleteApplicant is DELETE /deleteApplicants/:id with {"jobId"} in the body.
func (h *JobHandler) DeleteApplicant(c *gin.Context) {
	var req dtos.DeleteApplicantRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	job, err := h.applications.DeleteApplicant(c.Request.Context(), currentCompany(c), req.JobID, c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Applicant deleted successfully", "job": job})
}

func (h *JobHandler) AllJobs(c *gin.Context) {
	jobs, err := h.jobs.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) Search(c *gin.Context) {
	var filter search.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, h.log, err)
		return
	}
	jobs, err := h.jobs.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) UserJobDetail(c *gin.Context) {
	job, err := h.jobs.GetWithCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job detail found", "job": job})
}

// Apply is POST /userJobApply; the resume arrives as "resume" or, from older
// clients, "image".
func (h *JobHandler) Apply(c *gin.Context) {
	var req dtos.ApplyRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	user := currentUser(c)
	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), "apply:"+req.JobID+":"+user.UserID, applyLimit, applyWindow) {
		writeError(c, h.log, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
		return
	}
	if _, err := h.applications.Apply(c.Request.Context(), user, req, formFile(c, "resume", "image")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job applied successfully"})
}

func (h *JobHandler) InterviewQuestions(c *gin.Context) {
	var query dtos.InterviewQuestionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, h.log, err)
		return
	}
	questions, err := h.interviews.Questions(c.Request.Context(), c.Param("id"), query.Count)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
