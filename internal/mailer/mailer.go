// Package mailer is the delivery seam for password-reset tokens. Actual
// email delivery is infrastructure the service does not own; the default
// implementation only logs.
package mailer

import "go.uber.org/zap"

type Mailer interface {
	SendPasswordReset(email, token string) error
}

// LogMailer writes the reset token to the debug log instead of sending
// anything. Useful for development and tests.
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (LogMailer) SendPasswordReset(email, token string) error {
	zap.L().Debug("password reset requested",
		zap.String("email", email),
		zap.String("reset_token", token),
	)
	return nil
}
