// Package search turns the job search query string into a conjunctive
// predicate over postings. Matches is the reference semantics; Scope is the
// same predicate expressed for postgres.
package search

import (
	"strings"

	"github.com/rolejet/RoleJet/internal/models"
	"gorm.io/gorm"
)

// All is the sentinel a client sends to mean "no constraint".
const All = "all"

type Filter struct {
	Query    string `form:"query"`
	Location string `form:"location"`
	WorkMode string `form:"workMode"`
	Category string `form:"category"`
}

// Normalize trims every field and clears the ones set to the "all" sentinel.
// Query has no sentinel: "all" is a legitimate search term there.
func (f Filter) Normalize() Filter {
	return Filter{
		Query:    strings.TrimSpace(f.Query),
		Location: clearSentinel(f.Location),
		WorkMode: clearSentinel(f.WorkMode),
		Category: clearSentinel(f.Category),
	}
}

func (f Filter) Matches(job models.JobPosting) bool {
	n := f.Normalize()
	if n.Query != "" {
		hit := containsFold(job.Title, n.Query) || containsFold(job.Description, n.Query)
		for _, skill := range job.RequiredSkills {
			if hit {
				break
			}
			hit = containsFold(skill, n.Query)
		}
		if !hit {
			return false
		}
	}
	if n.Location != "" && !containsFold(job.Location, n.Location) {
		return false
	}
	if n.WorkMode != "" && !containsFold(job.WorkMode, n.WorkMode) {
		return false
	}
	if n.Category != "" && !containsFold(job.JobType, n.Category) {
		return false
	}
	return true
}

// Scope applies the filter to a query over the job_postings table.
func (f Filter) Scope() func(*gorm.DB) *gorm.DB {
	n := f.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		if n.Query != "" {
			pattern := likePattern(n.Query)
			db = db.Where(
				"(title ILIKE ? OR description ILIKE ? OR EXISTS (SELECT 1 FROM unnest(required_skills) AS skill WHERE skill ILIKE ?))",
				pattern, pattern, pattern,
			)
		}
		if n.Location != "" {
			db = db.Where("location ILIKE ?", likePattern(n.Location))
		}
		if n.WorkMode != "" {
			db = db.Where("work_mode ILIKE ?", likePattern(n.WorkMode))
		}
		if n.Category != "" {
			db = db.Where("job_type ILIKE ?", likePattern(n.Category))
		}
		return db
	}
}

func clearSentinel(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, All) {
		return ""
	}
	return trimmed
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
