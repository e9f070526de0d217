package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendEmailService struct {
	client *resend.Client
	sender string
}

func NewResendEmailService(apiKey, sender string) *ResendEmailService {
	return &ResendEmailService{client: resend.NewClient(apiKey), sender: sender}
}

func (s *ResendEmailService) request(msg Message, to string) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    s.sender,
		To:      []string{to},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
}

func (s *ResendEmailService) Send(ctx context.Context, msg Message, to string) error {
	if _, err := s.client.Emails.SendWithContext(ctx, s.request(msg, to)); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// SendBatch issues one batch API call with a separate email per recipient.
func (s *ResendEmailService) SendBatch(ctx context.Context, msg Message, recipients []string) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	reqs := make([]*resend.SendEmailRequest, len(recipients))
	for i, to := range recipients {
		reqs[i] = s.request(msg, to)
	}
	if _, err := s.client.Batch.SendWithContext(ctx, reqs); err != nil {
		return fmt.Errorf("resend batch: %w", err)
	}
	return nil
}
