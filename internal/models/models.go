package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Company struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name         string `gorm:"uniqueIndex;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Industry     string `gorm:"not null" json:"industry"`
	Location     string `gorm:"not null" json:"location"`
	Image        string `json:"image"`

	// 'omitempty' keeps Job -> Company -> Jobs from ballooning the payload
	Jobs []JobPosting `json:"job,omitempty"`
}

type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username     string `gorm:"not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Age        *int   `json:"age,omitempty"`
	ProfilePic string `json:"profilePic"`
	Experience string `json:"experience"`
	LookingFor string `json:"lookingFor"`
	Available  string `json:"available"`
	Preference string `json:"preference"`
	Location   string `json:"location"`

	AppliedJobs []JobPosting `gorm:"many2many:user_applied_jobs;constraint:OnDelete:CASCADE" json:"-"`
	// AppliedJobIDs is filled by the stores from the join table.
	AppliedJobIDs []string `gorm:"-" json:"applyJob"`
}

type JobPosting struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CompanyID string   `gorm:"type:uuid;not null;index" json:"companyId"`
	Company   *Company `json:"company,omitempty"`

	Title          string         `gorm:"not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	Role           string         `json:"role"`
	RequiredSkills pq.StringArray `gorm:"type:text[]" json:"requiredSkills"`
	Experience     string         `json:"experience"`
	JobType        string         `json:"jobType"`
	Location       string         `json:"location"`
	WorkMode       string         `json:"workMode"`

	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"userApply,omitempty"`
}

// Application is one user's submission to a posting. The composite unique
// index makes (posting, email) a store-level constraint.
type Application struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	JobPostingID string    `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_email" json:"jobId"`
	UserID       *string   `gorm:"type:uuid;index" json:"userId,omitempty"`
	Username     string    `json:"username"`
	Email        string    `gorm:"not null;uniqueIndex:idx_applications_job_email" json:"email"`
	CV           string    `json:"cv"`
	Description  string    `gorm:"type:text" json:"description"`
	PhoneNo      string    `json:"phoneno"`
	AppliedAt    time.Time `gorm:"not null;index" json:"appliedAt"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (j *JobPosting) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// HasApplicant reports whether email already applied to the posting.
func (j *JobPosting) HasApplicant(email string) bool {
	for _, app := range j.Applications {
		if app.Email == email {
			return true
		}
	}
	return false
}
