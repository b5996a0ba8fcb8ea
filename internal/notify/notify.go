// Package notify delivers team invite notifications.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/festy23/realty_ops/internal/config"
)

// Invite describes a membership grant to announce.
type Invite struct {
	To          string
	TeamName    string
	InviterName string
}

// Notifier sends invite notifications.
type Notifier interface {
	NotifyInvite(ctx context.Context, invite Invite) error
}

// New returns an SMTP notifier when mail is configured and a logging no-op otherwise.
func New(cfg config.MailConfig, logger *zap.SugaredLogger) Notifier {
	if !cfg.Enabled() {
		return &noop{logger: logger}
	}
	return NewSMTP(cfg, logger)
}

type noop struct {
	logger *zap.SugaredLogger
}

func (n *noop) NotifyInvite(_ context.Context, invite Invite) error {
	n.logger.Debugw("invite notification skipped, mail disabled", "team_name", invite.TeamName)
	return nil
}

// SMTP sends invites through an SMTP relay.
type SMTP struct {
	from   string
	appURL string
	send   func(m *gomail.Message) error
	logger *zap.SugaredLogger
}

// NewSMTP creates an SMTP notifier.
func NewSMTP(cfg config.MailConfig, logger *zap.SugaredLogger) *SMTP {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTP{
		from:   cfg.From,
		appURL: cfg.AppURL,
		send:   func(m *gomail.Message) error { return dialer.DialAndSend(m) },
		logger: logger,
	}
}

// NotifyInvite sends the invite email.
func (s *SMTP) NotifyInvite(ctx context.Context, invite Invite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(s.message(invite)); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}

	s.logger.Infow("invite email sent", "team_name", invite.TeamName)
	return nil
}

func (s *SMTP) message(invite Invite) *gomail.Message {
	inviter := invite.InviterName
	if inviter == "" {
		inviter = "A teammate"
	}
	link := strings.TrimRight(s.appURL, "/") + "/dashboard/team"

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", invite.To)
	m.SetHeader("Subject", fmt.Sprintf("You have been added to %s", invite.TeamName))
	m.SetBody("text/plain", fmt.Sprintf(
		"%s added you to the team %q.\n\nOpen the dashboard: %s\n", inviter, invite.TeamName, link))
	m.AddAlternative("text/html", fmt.Sprintf(
		`<p>%s added you to the team <strong>%s</strong>.</p><p><a href="%s">Open the dashboard</a></p>`,
		html.EscapeString(inviter), html.EscapeString(invite.TeamName), html.EscapeString(link)))
	return m
}
