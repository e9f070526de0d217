package application

import (
	"context"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/notify"
)

type TokenGenerator interface {
	GenerateToken(claims string) (string, error)
	CheckToken(token, claims string) error
}

// Notifications are the transactional emails sent as side effects of CRUD
// operations.
type Notifications interface {
	JoinerConfirmation(ctx context.Context, j domain.Joiner) error
	JoinerAlert(ctx context.Context, j domain.Joiner) error
	Welcome(ctx context.Context, sub domain.Subscription, unsubscribeLink string) error
	StatementReceived(ctx context.Context, ps domain.PersonalStatement) error
	FeedbackReady(ctx context.Context, ps domain.PersonalStatement, downloadLink string) error
}

type TaskQueue interface {
	Enqueue(name string, fn notify.Task) bool
}
