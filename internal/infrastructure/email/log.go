package email

import (
	"context"

	"go.uber.org/zap"
)

// LogEmailService only logs messages. Used when no transport is configured.
type LogEmailService struct {
	log *zap.SugaredLogger
}

func NewLogEmailService(log *zap.SugaredLogger) *LogEmailService {
	return &LogEmailService{log: log}
}

func (s *LogEmailService) Send(ctx context.Context, msg Message, to string) error {
	s.log.Infow("email (not sent)", "to", to, "subject", msg.Subject, "text", msg.Text)
	return nil
}

func (s *LogEmailService) SendBatch(ctx context.Context, msg Message, recipients []string) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	s.log.Infow("email batch (not sent)", "recipients", len(recipients), "subject", msg.Subject)
	return nil
}
