package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GmailNotifier sends notices through the Gmail API as the authorized
// account. The OAuth token must already exist on disk.
type GmailNotifier struct {
	service *gmail.Service
	sender  string
	log     *slog.Logger
}

// NewGmailNotifier reads the OAuth client secret and a previously saved token.
func NewGmailNotifier(ctx context.Context, credentialsFile, tokenFile, sender string, log *slog.Logger) (*GmailNotifier, error) {
	secret, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials: %w", err)
	}
	config, err := google.ConfigFromJSON(secret, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail token: %w", err)
	}
	service, err := gmail.NewService(ctx, option.WithHTTPClient(config.Client(context.Background(), tok)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &GmailNotifier{service: service, sender: sender, log: log}, nil
}

func (g *GmailNotifier) ApplicationReceived(ctx context.Context, notice ApplicationNotice) error {
	raw := base64.URLEncoding.EncodeToString([]byte(compose(g.sender, notice)))
	msg := &gmail.Message{Raw: raw}
	return retry(ctx, 3, time.Second, g.log, func() error {
		_, err := g.service.Users.Messages.Send("me", msg).Context(ctx).Do()
		return err
	})
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// retry backs off exponentially. Client errors other than 429 are returned
// immediately.
func retry(ctx context.Context, attempts int, sleep time.Duration, log *slog.Logger, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if permanent(err) {
			return err
		}
		log.Warn("gmail send failed, retrying", "attempt", i+1, "backoff", sleep, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("gmail send failed after %d attempts: %w", attempts, err)
}

func permanent(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 400 && gErr.Code < 500 && gErr.Code != 429
	}
	return false
}
