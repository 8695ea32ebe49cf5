package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// ConfirmationMailer delivers the account confirmation link. Delivery happens
// off the request path, so implementations only need to be safe for
// concurrent use.
type ConfirmationMailer interface {
	SendConfirmation(ctx context.Context, to, firstName, link string) error
}

// LogMailer writes the confirmation link to the log instead of sending mail.
// It is the default when no SMTP relay is configured, which keeps local
// development working without one.
type LogMailer struct {
	Log *slog.Logger
}

func (m *LogMailer) SendConfirmation(ctx context.Context, to, firstName, link string) error {
	m.Log.InfoContext(ctx, "confirmation mail (log only)",
		"to", to,
		"link", link,
	)
	return nil
}

// SMTPMailer sends the confirmation message through a plain SMTP relay.
type SMTPMailer struct {
	Addr string
	From string
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to, firstName, link string) error {
	body := confirmationBody(firstName, link)
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: Confirm your email",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send confirmation mail to %s: %w", to, err)
	}
	return nil
}

func confirmationBody(firstName, link string) string {
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Thank you for registering. Please click the link below to activate your account:</p>
<p><a href=%q>Activate Now</a></p>
<p>The link expires in 15 minutes.</p>`, firstName, link)
}
