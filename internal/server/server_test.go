package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/dispatch"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/cache"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/email"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/payments"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/security"
	"github.com/nextgenmedprep/medprep-server/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAdminKey      = "admin-secret"
	testWebhookSecret = "whsec_test"
)

type fixture struct {
	server        *Server
	subs          *mock.SubscriptionsRepository
	bookings      *mock.BookingsRepository
	joiners       *mock.JoinersRepository
	statements    *mock.StatementsRepository
	students      *mock.StudentsRepository
	storage       *mock.Storage
	client        *mock.EmailService
	logs          *mock.EmailLogRepository
	notifications *mock.Notifications
	tasks         *mock.TaskQueue
	checkout      *mock.Checkout
}

func newFixture(t *testing.T) *fixture {
	log := zap.NewNop().Sugar()
	f := &fixture{
		subs:          mock.NewSubscriptionsRepository(),
		bookings:      &mock.BookingsRepository{},
		joiners:       mock.NewJoinersRepository(),
		statements:    mock.NewStatementsRepository(),
		students:      mock.NewStudentsRepository(),
		storage:       mock.NewStorage(),
		client:        mock.NewEmailService(),
		logs:          &mock.EmailLogRepository{},
		notifications: &mock.Notifications{},
		tasks:         &mock.TaskQueue{},
		checkout:      &mock.Checkout{},
	}
	subsCache := cache.NewSubscriptionsCache(time.Minute)
	t.Cleanup(subsCache.Close)

	tokens := security.NewTokenGenerator("test-key", "unsubscribe", time.Hour)
	resolver := application.NewRecipientResolver(f.subs, f.bookings, nil)
	emails := application.NewEmailsService(
		log, resolver, dispatch.NewDispatcher(log, dispatch.BatchSize), f.client,
		email.NewComposer("https://nextgenmedprep.test"), f.subs, f.logs, "https://nextgenmedprep.test/preferences",
	)
	services := Services{
		Emails:        emails,
		Subscriptions: application.NewSubscriptionsService(log, f.subs, subsCache, f.tasks, f.notifications, tokens, "https://nextgenmedprep.test"),
		Joiners:       application.NewJoinersService(log, f.joiners, f.tasks, f.notifications),
		Statements:    application.NewStatementsService(log, f.statements, f.storage, f.checkout, f.tasks, f.notifications, time.Hour),
		Students:      application.NewStudentsService(f.students),
		Webhooks:      payments.NewStripePayments(payments.Config{SecretKey: "sk_test", WebhookSecret: testWebhookSecret}),
	}
	f.server = NewServer(log, Config{AdminKey: testAdminKey}, services)
	return f
}

type response struct {
	Code    int
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (r response) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v))
}

func (f *fixture) do(t *testing.T, req *http.Request) response {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	res := response{Code: rec.Code}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	}
	return res
}

func (f *fixture) json(t *testing.T, method, target, body string, headers ...string) response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return f.do(t, req)
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsSharedBetweenInstances(t *testing.T) {
	log := zap.NewNop().Sugar()
	assert.Same(t, metricsFor("api"), metricsFor("api"))
	assert.NotSame(t, metricsFor("api"), metricsFor("prometheus"))

	for i := 0; i < 2; i++ {
		e := NewEcho(log, "api")
		e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "api_requests_total")
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	f := newFixture(t)
	res := f.json(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestMalformedJSON(t *testing.T) {
	f := newFixture(t)
	res := f.json(t, http.MethodPost, "/api/subscriptions", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.False(t, res.Success)
}

func TestErrorStatus(t *testing.T) {
	code, msg := errorStatus(echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	assert.Equal(t, http.StatusTeapot, code)
	assert.Equal(t, "short and stout", msg)

	code, msg = errorStatus(io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal Server Error", msg)
}
