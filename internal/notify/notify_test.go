package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func TestComposeMessage(t *testing.T) {
	msg := compose("jobs@rolejet.dev", ApplicationNotice{
		CompanyName:    "Acme",
		CompanyEmail:   "hr@gmail.com",
		JobTitle:       "Backend Engineer",
		ApplicantName:  "ann",
		ApplicantEmail: "ann@b.com",
		Phone:          "0123456789",
		ResumeURL:      "/uploads/cv.pdf",
		AppliedAt:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	for _, want := range []string{
		"From: jobs@rolejet.dev\r\n",
		"To: \"Acme\" <hr@gmail.com>\r\n",
		"Subject: New application for Backend Engineer\r\n",
		"ann (ann@b.com) applied for Backend Engineer",
		"Phone: 0123456789",
		"Resume: /uploads/cv.pdf",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
	if !strings.Contains(msg, "\r\n\r\nHello Acme") {
		t.Fatalf("headers and body must be separated by a blank line")
	}
}

func TestComposeFoldsHeaderInjection(t *testing.T) {
	msg := compose("jobs@rolejet.dev\r\nBcc: a@example.com", ApplicationNotice{
		CompanyName:  "Acme\nX-Evil: 1",
		CompanyEmail: "hr@gmail.com\r\nCc: b@example.com",
		JobTitle:     "Dev\r\nBcc: victim@example.com",
		AppliedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	headers, _, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		t.Fatalf("no header block:\n%s", msg)
	}
	for _, line := range strings.Split(headers, "\r\n") {
		if strings.ContainsAny(line, "\r\n") {
			t.Fatalf("stray line break in header %q", line)
		}
		name, _, _ := strings.Cut(line, ":")
		switch name {
		case "From", "To", "Subject", "MIME-Version", "Content-Type":
		default:
			t.Fatalf("unexpected header line %q in:\n%s", line, headers)
		}
	}
}

func TestComposeEncodesNonASCIISubject(t *testing.T) {
	msg := compose("", ApplicationNotice{CompanyEmail: "hr@gmail.com", JobTitle: "Développeur"})
	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Fatalf("subject not encoded:\n%s", msg)
	}
}

func TestNoop(t *testing.T) {
	if err := (Noop{}).ApplicationReceived(context.Background(), ApplicationNotice{}); err != nil {
		t.Fatalf("noop returned %v", err)
	}
}

func TestRetryStopsOnClientError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, log, func() error {
		calls++
		return &googleapi.Error{Code: 400}
	})
	if err == nil || calls != 1 {
		t.Fatalf("expected one call and an error, got %d calls, %v", calls, err)
	}

	calls = 0
	err = retry(context.Background(), 3, time.Millisecond, log, func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected success on third call, got %d calls, %v", calls, err)
	}
}
