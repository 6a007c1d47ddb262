package dtos

import (
	"encoding/json"
	"strings"
)

// SkillList decodes either a JSON array or a comma-separated string.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		raw = strings.Split(joined, ",")
	}
	*s = cleanSkills(raw)
	return nil
}

func cleanSkills(raw []string) SkillList {
	skills := SkillList{}
	for _, skill := range raw {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

type JobPostRequest struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description" validate:"required"`
	Role           string    `json:"role"`
	RequiredSkills SkillList `json:"requiredSkills" validate:"gt=0"`
	Experience     string    `json:"experience" validate:"required"`
	JobType        string    `json:"jobType" validate:"required"`
	Location       string    `json:"location" validate:"required"`
	WorkMode       string    `json:"workMode" validate:"required"`
}

// DeleteApplicantRequest names the posting the application belongs to.
type DeleteApplicantRequest struct {
	JobID string `form:"jobId" json:"jobId" validate:"required"`
}
