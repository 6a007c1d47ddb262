package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/repository"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const (
	DefaultQuestionCount = 5
	MaxQuestionCount     = 10
	// descriptions beyond this are cut before prompting
	maxPromptDescription = 8000
)

// InterviewService generates practice interview questions for a posting.
type InterviewService struct {
	model llms.Model
	jobs  repository.JobStore
	log   *slog.Logger
}

// NewInterviewService accepts a nil model; Questions then reports the feature
// as unavailable.
func NewInterviewService(model llms.Model, jobs repository.JobStore, log *slog.Logger) *InterviewService {
	return &InterviewService{model: model, jobs: jobs, log: log}
}

// NewGeminiModel builds the Google AI client used in production.
func NewGeminiModel(ctx context.Context, apiKey, model string) (llms.Model, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return llm, nil
}

const interviewPrompt = `
You are an experienced technical interviewer preparing a candidate for an interview.

### JOB POSTING:
Title: %s
Role: %s
Job type: %s
Experience: %s
Required skills: %s
Description:
%s

### INSTRUCTIONS:
1. Write exactly %d interview questions a hiring manager for this posting would ask.
2. Mix technical questions on the required skills with behavioural questions.
3. Each question is a single sentence.
4. Output a JSON array of strings only. Do not wrap the output in markdown code blocks.
`

var numbered = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*])\s*`)

func (s *InterviewService) Questions(ctx context.Context, jobID string, n int) ([]string, error) {
	if s.model == nil {
		return nil, common.NewError(common.CodeUnavailable, "Interview practice is not configured", nil)
	}
	if n <= 0 {
		n = DefaultQuestionCount
	}
	if n > MaxQuestionCount {
		n = MaxQuestionCount
	}
	job, err := s.jobs.GetJobWithCompany(ctx, jobID)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}

	prompt := fmt.Sprintf(interviewPrompt, job.Title, job.Role, job.JobType, job.Experience,
		strings.Join(job.RequiredSkills, ", "), truncate(job.Description, maxPromptDescription), n)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt, llms.WithTemperature(0.4))
	if err != nil {
		return nil, common.NewError(common.CodeUnavailable, "Interview question generation failed", err)
	}
	questions := parseQuestions(resp)
	if len(questions) == 0 {
		s.log.Warn("model returned no usable questions", "job_id", jobID, "response", resp)
		return nil, common.NewError(common.CodeUnavailable, "Interview question generation failed", nil)
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	return questions, nil
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// parseQuestions accepts a JSON array, optionally fenced, and falls back to
// one question per numbered or bulleted line.
func parseQuestions(resp string) []string {
	var raw []string
	if start, end := strings.Index(resp, "["), strings.LastIndex(resp, "]"); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(resp[start:end+1]), &raw); err != nil {
			raw = nil
		}
	}
	if raw == nil {
		for _, line := range strings.Split(resp, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			raw = append(raw, numbered.ReplaceAllString(line, ""))
		}
	}
	questions := []string{}
	for _, q := range raw {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	return questions
}
