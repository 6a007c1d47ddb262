// Package notify tells companies about new applications.
package notify

import (
	"context"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"
)

// ApplicationNotice describes one accepted application.
type ApplicationNotice struct {
	CompanyName    string
	CompanyEmail   string
	JobTitle       string
	ApplicantName  string
	ApplicantEmail string
	Phone          string
	ResumeURL      string
	AppliedAt      time.Time
}

type Notifier interface {
	ApplicationReceived(ctx context.Context, notice ApplicationNotice) error
}

// Noop is used when no mail transport is configured.
type Noop struct{}

func (Noop) ApplicationReceived(context.Context, ApplicationNotice) error { return nil }

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// headerSafe folds line breaks so a value can never start a new header.
func headerSafe(value string) string {
	return strings.TrimSpace(headerBreaks.Replace(value))
}

// compose renders the notice as an RFC 2822 message. Header values come from
// company and applicant input and are folded onto one line before encoding.
func compose(from string, n ApplicationNotice) string {
	subject := mime.QEncoding.Encode("utf-8", "New application for "+headerSafe(n.JobTitle))
	to := mail.Address{Name: headerSafe(n.CompanyName), Address: headerSafe(n.CompanyEmail)}
	var b strings.Builder
	if from = headerSafe(from); from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to.String())
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	fmt.Fprintf(&b, "Hello %s,\r\n\r\n", n.CompanyName)
	fmt.Fprintf(&b, "%s (%s) applied for %s on %s.\r\n", n.ApplicantName, n.ApplicantEmail, n.JobTitle, n.AppliedAt.UTC().Format(time.RFC1123))
	if n.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\r\n", n.Phone)
	}
	if n.ResumeURL != "" {
		fmt.Fprintf(&b, "Resume: %s\r\n", n.ResumeURL)
	}
	b.WriteString("\r\nReview the applicant from your RoleJet dashboard.\r\n")
	return b.String()
}
