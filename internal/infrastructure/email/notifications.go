package email

import (
	"context"
	"fmt"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type Subjects struct {
	JoinerConfirmation string
	JoinerAlert        string
	Welcome            string
	StatementReceived  string
	FeedbackReady      string
}

var DefaultSubjects = Subjects{
	JoinerConfirmation: "Your NextGen MedPrep tutor application",
	JoinerAlert:        "New tutor application",
	Welcome:            "Welcome to NextGen MedPrep",
	StatementReceived:  "We have received your personal statement",
	FeedbackReady:      "Your personal statement feedback is ready",
}

// NotificationsSender sends the single-recipient transactional emails.
type NotificationsSender struct {
	client    EmailService
	composer  *Composer
	operators []string
	subjects  Subjects
}

func NewNotificationsSender(client EmailService, composer *Composer, operators []string, subjects Subjects) *NotificationsSender {
	return &NotificationsSender{client: client, composer: composer, operators: operators, subjects: subjects}
}

func (s *NotificationsSender) send(ctx context.Context, template, subject, to string, data map[string]interface{}) error {
	msg, err := s.composer.Render(template, subject, data)
	if err != nil {
		return err
	}
	if err := s.client.Send(ctx, msg, to); err != nil {
		return fmt.Errorf("sending %s email [%s]: %w", template, to, err)
	}
	return nil
}

func (s *NotificationsSender) JoinerConfirmation(ctx context.Context, j domain.Joiner) error {
	return s.send(ctx, TemplateJoinerConfirmation, s.subjects.JoinerConfirmation, j.Email, map[string]interface{}{"Joiner": &j})
}

// JoinerAlert notifies every operator address; the first failure is returned
// after all addresses were tried.
func (s *NotificationsSender) JoinerAlert(ctx context.Context, j domain.Joiner) error {
	var firstErr error
	subject := fmt.Sprintf("%s: %s", s.subjects.JoinerAlert, j.FullName())
	for _, op := range s.operators {
		if err := s.send(ctx, TemplateJoinerAlert, subject, op, map[string]interface{}{"Joiner": &j}); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *NotificationsSender) Welcome(ctx context.Context, sub domain.Subscription, unsubscribeLink string) error {
	return s.send(ctx, TemplateSubscriptionWelcome, s.subjects.Welcome, sub.Email, map[string]interface{}{
		"Subscription":    &sub,
		"UnsubscribeLink": unsubscribeLink,
	})
}

func (s *NotificationsSender) StatementReceived(ctx context.Context, ps domain.PersonalStatement) error {
	return s.send(ctx, TemplateStatementReceived, s.subjects.StatementReceived, ps.Email, map[string]interface{}{"Statement": &ps})
}

func (s *NotificationsSender) FeedbackReady(ctx context.Context, ps domain.PersonalStatement, downloadLink string) error {
	return s.send(ctx, TemplateStatementFeedback, s.subjects.FeedbackReady, ps.Email, map[string]interface{}{
		"Statement":    &ps,
		"DownloadLink": downloadLink,
	})
}
