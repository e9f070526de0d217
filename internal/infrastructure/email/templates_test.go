package email

import (
	"context"
	"errors"
	"testing"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComposerBulk(t *testing.T) {
	c := NewComposer("https://nextgenmedprep.co.uk/")
	msg, err := c.Bulk("June update", "<p>Interview tips &amp; tricks</p>", "https://nextgenmedprep.co.uk/unsubscribe?t=1")
	require.NoError(t, err)

	assert.Equal(t, "June update", msg.Subject)
	assert.Contains(t, msg.HTML, "<p>Interview tips &amp; tricks</p>")
	assert.Contains(t, msg.HTML, "Unsubscribe")
	assert.Contains(t, msg.Text, "Interview tips & tricks")
	assert.NotContains(t, msg.Text, "<p>")
	assert.Contains(t, msg.Text, "https://nextgenmedprep.co.uk\n")
}

func TestComposerWithoutUnsubscribeLink(t *testing.T) {
	c := NewComposer("https://example.com")
	msg, err := c.Bulk("s", "hello", "")
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "Unsubscribe")
	assert.NotContains(t, msg.Text, "Unsubscribe")
}

func TestComposerUnknownTemplate(t *testing.T) {
	_, err := NewComposer("").Render("missing", "s", nil)
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world", PlainText("<h1>Hello</h1> <b>world</b>"))
}

type recorder struct {
	to   []string
	msgs []Message
	err  error
}

func (r *recorder) Send(ctx context.Context, msg Message, to string) error {
	r.to = append(r.to, to)
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recorder) SendBatch(ctx context.Context, msg Message, recipients []string) error {
	return r.err
}

func TestNotificationsSender(t *testing.T) {
	rec := &recorder{}
	s := NewNotificationsSender(rec, NewComposer("https://example.com"), []string{"ops1@example.com", "ops2@example.com"}, DefaultSubjects)
	j := domain.Joiner{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", University: "Oxford", Subjects: []string{"biology", "chemistry"}}

	require.NoError(t, s.JoinerConfirmation(context.Background(), j))
	require.NoError(t, s.JoinerAlert(context.Background(), j))

	assert.Equal(t, []string{"ada@example.com", "ops1@example.com", "ops2@example.com"}, rec.to)
	assert.Contains(t, rec.msgs[0].Text, "Hi Ada")
	assert.Contains(t, rec.msgs[1].Subject, "Ada Lovelace")
	assert.Contains(t, rec.msgs[1].Text, "biology, chemistry")
}

func TestNotificationsSenderError(t *testing.T) {
	rec := &recorder{err: errors.New("refused")}
	s := NewNotificationsSender(rec, NewComposer("https://example.com"), []string{"a@example.com", "b@example.com"}, DefaultSubjects)
	err := s.JoinerAlert(context.Background(), domain.Joiner{FirstName: "A", Email: "x@example.com"})
	assert.Error(t, err)
	assert.Len(t, rec.to, 2)
}

func TestLogEmailService(t *testing.T) {
	s := NewLogEmailService(zap.NewNop().Sugar())
	assert.NoError(t, s.SendBatch(context.Background(), Message{Subject: "x"}, []string{"a@example.com"}))
	assert.ErrorIs(t, s.SendBatch(context.Background(), Message{}, nil), ErrNoRecipients)
}
