package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/payments"
	"github.com/nextgenmedprep/medprep-server/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type statementsFixture struct {
	service       *StatementsService
	repo          *mock.StatementsRepository
	storage       *mock.Storage
	checkout      *mock.Checkout
	notifications *mock.Notifications
}

func newStatementsFixture(withCheckout bool) statementsFixture {
	f := statementsFixture{
		repo:          mock.NewStatementsRepository(),
		storage:       mock.NewStorage(),
		notifications: &mock.Notifications{},
	}
	var checkout Checkout
	if withCheckout {
		f.checkout = &mock.Checkout{}
		checkout = f.checkout
	}
	f.service = NewStatementsService(zap.NewNop().Sugar(), f.repo, f.storage, checkout, &mock.TaskQueue{}, f.notifications, 0)
	return f
}

func submission(name string, size int64) StatementSubmission {
	return StatementSubmission{
		Email:       "student@x.com",
		FirstName:   "Ann",
		LastName:    "Smith",
		ServiceType: domain.ServicePremium,
		File:        FileUpload{Name: name, Size: size, Body: strings.NewReader("statement")},
	}
}

func TestSubmitWithCheckout(t *testing.T) {
	f := newStatementsFixture(true)

	res, err := f.service.Submit(context.Background(), submission("My Statement.pdf", 9))
	require.NoError(t, err)
	ps := res.Statement
	assert.Equal(t, domain.StatementPendingPayment, ps.Status)
	assert.Equal(t, int64(7999), ps.Amount)
	assert.Equal(t, "cs_test_1", ps.StripeSessionID)
	assert.Equal(t, "https://checkout.test/cs_test_1", res.CheckoutURL)
	assert.True(t, strings.HasPrefix(ps.FilePath, "statements/"))
	assert.True(t, strings.HasSuffix(ps.FilePath, "/My_Statement.pdf"))
	assert.Contains(t, f.storage.Objects, ps.FilePath)
	assert.Equal(t, []string{"statement_received:student@x.com"}, f.notifications.Calls)

	require.NoError(t, f.service.HandlePayment(payments.Event{
		Type: "checkout.session.completed", StatementID: ps.ID, SessionID: "cs_test_1", Paid: true,
	}))
	stored, _ := f.repo.GetByID(ps.ID)
	assert.Equal(t, domain.StatementPaid, stored.Status)
}

func TestSubmitCheckoutFailureCleansUp(t *testing.T) {
	f := newStatementsFixture(true)
	f.checkout.Err = errors.New("stripe unavailable")

	_, err := f.service.Submit(context.Background(), submission("statement.pdf", 9))
	require.Error(t, err)
	assert.Empty(t, f.storage.Objects)
	list, err := f.service.List(domain.StatementFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.notifications.Calls)

	f = newStatementsFixture(true)
	f.checkout.Err = errors.New("stripe unavailable")
	f.storage.DeleteErr = errors.New("bucket offline")
	_, err = f.service.Submit(context.Background(), submission("statement.pdf", 9))
	assert.EqualError(t, err, "creating checkout session: stripe unavailable")
}

func TestSubmitWithoutPayments(t *testing.T) {
	f := newStatementsFixture(false)

	res, err := f.service.Submit(context.Background(), submission("statement.docx", 9))
	require.NoError(t, err)
	assert.Equal(t, domain.StatementSubmitted, res.Statement.Status)
	assert.Empty(t, res.CheckoutURL)
}

func TestSubmitFileChecks(t *testing.T) {
	f := newStatementsFixture(false)

	_, err := f.service.Submit(context.Background(), submission("statement.exe", 9))
	assert.True(t, domain.IsValidationError(err))

	_, err = f.service.Submit(context.Background(), submission("statement.pdf", MaxStatementSize+1))
	assert.True(t, domain.IsValidationError(err))

	in := submission("statement.pdf", 9)
	in.File.Body = nil
	_, err = f.service.Submit(context.Background(), in)
	assert.True(t, domain.IsValidationError(err))
	assert.Empty(t, f.storage.Objects)
}

func TestFeedbackAndDownload(t *testing.T) {
	f := newStatementsFixture(false)
	res, err := f.service.Submit(context.Background(), submission("statement.pdf", 9))
	require.NoError(t, err)
	id := res.Statement.ID

	_, err = f.service.DownloadURL(context.Background(), id, true)
	assert.ErrorIs(t, err, domain.ErrNotFound, "no feedback yet")

	ps, err := f.service.UploadFeedback(context.Background(), id, FileUpload{Name: "review.pdf", Size: 4, Body: strings.NewReader("good")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatementCompleted, ps.Status)

	link, err := f.service.DownloadURL(context.Background(), id, true)
	require.NoError(t, err)
	assert.Contains(t, link, ps.FeedbackPath)
	assert.Contains(t, link, "expires=3600")
	assert.Contains(t, f.notifications.Calls, "feedback_ready:student@x.com")
}

func TestReviewStatement(t *testing.T) {
	f := newStatementsFixture(false)
	res, _ := f.service.Submit(context.Background(), submission("statement.pdf", 9))

	status := domain.StatementInReview
	reviewer := "Dr Who"
	ps, err := f.service.Review(res.Statement.ID, StatementReview{Status: &status, Reviewer: &reviewer})
	require.NoError(t, err)
	assert.Equal(t, domain.StatementInReview, ps.Status)
	assert.Equal(t, "Dr Who", ps.Reviewer)

	bad := domain.StatementStatus("lost")
	_, err = f.service.Review(res.Statement.ID, StatementReview{Status: &bad})
	assert.True(t, domain.IsValidationError(err))

	list, err := f.service.List(domain.StatementFilter{Status: domain.StatementInReview, Email: "STUDENT@x.com"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHandlePaymentIgnoresUnrelatedEvents(t *testing.T) {
	f := newStatementsFixture(true)
	assert.NoError(t, f.service.HandlePayment(payments.Event{Type: "invoice.paid", StatementID: 1}))
	assert.NoError(t, f.service.HandlePayment(payments.Event{Type: "checkout.session.completed"}))
	assert.ErrorIs(t, f.service.HandlePayment(payments.Event{Type: "checkout.session.completed", StatementID: 5, Paid: true}), domain.ErrNotFound)
}
