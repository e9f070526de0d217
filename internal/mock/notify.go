package mock

import (
	"context"
	"sync"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/notify"
)

// TaskQueue runs tasks synchronously and records their names and errors.
type TaskQueue struct {
	mu     sync.Mutex
	Tasks  []string
	Errors []error
}

func (q *TaskQueue) Enqueue(name string, fn notify.Task) bool {
	err := fn(context.Background())
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Tasks = append(q.Tasks, name)
	q.Errors = append(q.Errors, err)
	return true
}

// Notifications records calls; Err is returned from every call.
type Notifications struct {
	mu    sync.Mutex
	Calls []string
	Links []string
	Err   error
}

func (n *Notifications) record(call, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Calls = append(n.Calls, call)
	if link != "" {
		n.Links = append(n.Links, link)
	}
	return n.Err
}

func (n *Notifications) JoinerConfirmation(ctx context.Context, j domain.Joiner) error {
	return n.record("joiner_confirmation:"+j.Email, "")
}

func (n *Notifications) JoinerAlert(ctx context.Context, j domain.Joiner) error {
	return n.record("joiner_alert:"+j.Email, "")
}

func (n *Notifications) Welcome(ctx context.Context, sub domain.Subscription, unsubscribeLink string) error {
	return n.record("welcome:"+sub.Email, unsubscribeLink)
}

func (n *Notifications) StatementReceived(ctx context.Context, ps domain.PersonalStatement) error {
	return n.record("statement_received:"+ps.Email, "")
}

func (n *Notifications) FeedbackReady(ctx context.Context, ps domain.PersonalStatement, downloadLink string) error {
	return n.record("feedback_ready:"+ps.Email, downloadLink)
}
