package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rolejet/RoleJet/internal/common"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestInterviewQuestions(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme", "a@gmail.com")
	job := f.job(t, acme, "Backend Engineer", "Remote")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	model := &fakeModel{reply: "```json\n[\"Q1?\", \"Q2?\", \"Q3?\", \"Q4?\", \"Q5?\", \"Q6?\"]\n```"}
	svc := NewInterviewService(model, f.store, log)
	questions, err := svc.Questions(ctx, job.ID, 0)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != DefaultQuestionCount || questions[0] != "Q1?" {
		t.Fatalf("unexpected questions %v", questions)
	}
	if len(model.prompts) != 1 || !strings.Contains(model.prompts[0], "Backend Engineer") || !strings.Contains(model.prompts[0], "Go, SQL") {
		t.Fatalf("prompt missing posting details: %v", model.prompts)
	}

	_, _ = svc.Questions(ctx, job.ID, 50)
	if !strings.Contains(model.prompts[1], fmt.Sprintf("exactly %d interview questions", MaxQuestionCount)) {
		t.Fatalf("count must be capped")
	}

	_, err = svc.Questions(ctx, "missing", 3)
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInterviewQuestionsUnavailable(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme", "a@gmail.com")
	job := f.job(t, acme, "Backend", "Remote")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewInterviewService(nil, f.store, log).Questions(context.Background(), job.ID, 3)
	if !common.Is(err, common.CodeUnavailable) {
		t.Fatalf("expected unavailable without model, got %v", err)
	}
	_, err = NewInterviewService(&fakeModel{err: errors.New("quota")}, f.store, log).Questions(context.Background(), job.ID, 3)
	if !common.Is(err, common.CodeUnavailable) {
		t.Fatalf("expected unavailable on model failure, got %v", err)
	}
}

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"json", `["a", " b ", ""]`, []string{"a", "b"}},
		{"numbered", "1. First?\n2) Second?\n\n- Third?", []string{"First?", "Second?", "Third?"}},
		{"fenced numbered", "```\n1. Only?\n```", []string{"Only?"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseQuestions(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
		{"日本語", 4, "日"},
		{"日本語", 1, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.max)
		if got != tt.want || !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
