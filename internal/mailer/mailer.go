// Package mailer sends transactional email through the Mailgun HTTP API.
// Delivery is best-effort: the API keeps working with mail disabled, and
// callers dispatch through the background job queue so a failed send never
// fails the request that triggered it.
package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stempro/academy-api/pkg/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer is a Mailgun-backed Sender.
type Mailer struct {
	cfg    config.MailConfig
	client *http.Client
	logger *zap.Logger
}

// New constructs a Mailer. With empty credentials the mailer is disabled:
// sends are logged and dropped.
func New(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Enabled reports whether Mailgun credentials are configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.APIKey != "" && m.cfg.Domain != ""
}

// Send delivers one message through the Mailgun messages endpoint.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.Enabled() {
		m.logger.Info("mail disabled, skipping send",
			zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return nil
	}

	form := url.Values{}
	form.Set("from", fmt.Sprintf("StemPro Academy <%s>", m.cfg.FromEmail))
	form.Set("to", msg.To)
	form.Set("subject", msg.Subject)
	form.Set("text", msg.Body)
	if m.cfg.BCCEmail != "" {
		form.Set("bcc", m.cfg.BCCEmail)
	}

	endpoint := fmt.Sprintf("https://api.mailgun.net/v3/%s/messages", m.cfg.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build mailgun request: %w", err)
	}
	req.SetBasicAuth("api", m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send mail to %s: mailgun returned %d", msg.To, resp.StatusCode)
	}
	return nil
}
