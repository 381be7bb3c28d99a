package service

import (
	"context"

	"go.uber.org/zap"
)

// logResetSender is the default ResetTokenSender. Outbound email lives in a
// separate delivery system; outside development this logs only the recipient,
// never the token.
type logResetSender struct {
	logger *zap.Logger
	dev    bool
}

// NewLogResetSender creates a sender that logs reset issuance. In dev mode it
// also logs the raw token so the flow can be exercised without a mailer.
func NewLogResetSender(logger *zap.Logger, dev bool) ResetTokenSender {
	return &logResetSender{logger: logger, dev: dev}
}

func (s *logResetSender) SendPasswordReset(_ context.Context, email, token string) error {
	if s.dev {
		s.logger.Debug("password reset token issued",
			zap.String("email", email),
			zap.String("token", token),
		)
		return nil
	}
	s.logger.Info("password reset requested", zap.String("email", email))
	return nil
}
