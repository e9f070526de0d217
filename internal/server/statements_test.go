package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

var statementFields = map[string]string{
	"email":        "student@x.com",
	"first_name":   "Ann",
	"last_name":    "Smith",
	"service_type": "premium",
	"university":   "Oxford",
}

func (f *fixture) upload(t *testing.T, target string, fields map[string]string, fileName string, content []byte) response {
	t.Helper()
	body, contentType := multipartBody(t, fields, fileName, content)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	return f.do(t, req)
}

func TestSubmitStatement(t *testing.T) {
	f := newFixture(t)

	res := f.upload(t, "/api/personal-statements", statementFields, "statement.pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusCreated, res.Code, res.Error)
	var submitted SubmittedStatement
	res.decode(t, &submitted)
	assert.Equal(t, domain.StatementPendingPayment, submitted.Statement.Status)
	assert.Equal(t, "https://checkout.test/cs_test_1", submitted.CheckoutURL)
	assert.Equal(t, int64(7999), submitted.Statement.Amount)
	require.Len(t, f.checkout.Requests, 1)
	assert.Len(t, f.storage.Objects, 1)
	assert.Contains(t, f.notifications.Calls, "statement_received:student@x.com")
}

func TestSubmitStatementRejectsFiles(t *testing.T) {
	f := newFixture(t)

	res := f.upload(t, "/api/personal-statements", statementFields, "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Error, "file")

	res = f.upload(t, "/api/personal-statements", statementFields, "statement.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Error, "unsupported")

	big := bytes.Repeat([]byte("a"), 10<<20+1)
	res = f.upload(t, "/api/personal-statements", statementFields, "statement.pdf", big)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	fields := map[string]string{"email": "bad", "first_name": "Ann", "last_name": "Smith"}
	res = f.upload(t, "/api/personal-statements", fields, "statement.pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, f.storage.Objects)
}

func TestReviewAndFeedback(t *testing.T) {
	f := newFixture(t)
	res := f.upload(t, "/api/personal-statements", statementFields, "statement.docx", []byte("PK"))
	require.Equal(t, http.StatusCreated, res.Code, res.Error)
	var submitted SubmittedStatement
	res.decode(t, &submitted)
	target := fmt.Sprintf("/api/personal-statements/%d", submitted.Statement.ID)

	res = f.json(t, http.MethodPut, target, `{"status":"in_review","reviewer":"Dr Who","reviewer_notes":"Looks good"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	var ps Statement
	res.decode(t, &ps)
	assert.Equal(t, domain.StatementInReview, ps.Status)
	assert.Equal(t, "Dr Who", ps.Reviewer)

	res = f.json(t, http.MethodGet, target+"/download", "")
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	var link map[string]string
	res.decode(t, &link)
	assert.True(t, strings.HasPrefix(link["url"], "https://storage.test/statements/"))

	res = f.json(t, http.MethodGet, target+"/download?type=feedback", "")
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = f.upload(t, target+"/feedback", nil, "feedback.pdf", []byte("%PDF"))
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	res.decode(t, &ps)
	assert.Equal(t, domain.StatementCompleted, ps.Status)
	assert.True(t, ps.HasFeedback)
	assert.Contains(t, f.notifications.Calls, "feedback_ready:student@x.com")

	res = f.json(t, http.MethodGet, target+"/download?type=feedback", "")
	require.Equal(t, http.StatusOK, res.Code)
	res.decode(t, &link)
	assert.True(t, strings.HasPrefix(link["url"], "https://storage.test/feedback/"))

	res = f.json(t, http.MethodGet, "/api/personal-statements?status=completed&email=student@x.com", "")
	require.Equal(t, http.StatusOK, res.Code)
	var list []Statement
	res.decode(t, &list)
	assert.Len(t, list, 1)

	res = f.json(t, http.MethodGet, "/api/personal-statements/999", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

const checkoutCompleted = `{
  "id": "evt_1",
  "object": "event",
  "type": "checkout.session.completed",
  "data": {
    "object": {
      "id": "cs_test_1",
      "object": "checkout.session",
      "payment_status": "paid",
      "metadata": {"statement_id": "%d"}
    }
  }
}`

func (f *fixture) webhook(t *testing.T, payload, secret string) response {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(signed.Payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Stripe-Signature", signed.Header)
	return f.do(t, req)
}

func TestStripeWebhookMarksPaid(t *testing.T) {
	f := newFixture(t)
	res := f.upload(t, "/api/personal-statements", statementFields, "statement.pdf", []byte("%PDF"))
	require.Equal(t, http.StatusCreated, res.Code, res.Error)
	var submitted SubmittedStatement
	res.decode(t, &submitted)

	res = f.webhook(t, fmt.Sprintf(checkoutCompleted, submitted.Statement.ID), "whsec_other")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = f.webhook(t, fmt.Sprintf(checkoutCompleted, submitted.Statement.ID), testWebhookSecret)
	require.Equal(t, http.StatusOK, res.Code, res.Error)

	ps, err := f.statements.GetByID(submitted.Statement.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatementPaid, ps.Status)
}
