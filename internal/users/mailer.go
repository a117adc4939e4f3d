package users

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	log "github.com/sirupsen/logrus"

	"github.com/fitware/fitware/internal/telemetry/tracing"
)

// DefaultFromAddress is the sender used for transactional email.
const DefaultFromAddress = "Fitware <no-reply@fitware.app>"

// ResetMailer delivers password reset emails.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}

// Mailer sends transactional email through Resend.
type Mailer struct {
	client *resend.Client
	from   string
}

func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *Mailer) SendPasswordReset(ctx context.Context, email, resetLink string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mailer.sendPasswordReset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: "Reset your Fitware password",
		Html: fmt.Sprintf(
			`<p>Someone requested a password reset for your account.</p>
			<p><a href="%s">Reset password</a> (the link is valid for one hour)</p>
			<p>If that was not you, ignore this email.</p>`,
			resetLink,
		),
	}

	if _, err = m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// NoopMailer is used when no Resend API key is configured (local dev).
type NoopMailer struct{}

func (NoopMailer) SendPasswordReset(_ context.Context, email, _ string) error {
	log.Warnf("mailer not configured, skipping password reset email for %s", email)
	return nil
}
