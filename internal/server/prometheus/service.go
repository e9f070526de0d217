// Package prometheus serves the mock-interview generation API. Requests are
// recorded as queued sessions and handed to the generation workers through
// a redis list.
package prometheus

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/server"
	"go.uber.org/zap"
)

// Backlog reports how many generation jobs wait for a worker.
type Backlog interface {
	Pending(ctx context.Context) (int64, error)
}

type Service struct {
	echo     *echo.Echo
	log      *zap.SugaredLogger
	sessions *application.SessionsService
	backlog  Backlog
}

// NewService builds the HTTP service. backlog may be nil.
func NewService(log *zap.SugaredLogger, sessions *application.SessionsService, backlog Backlog) *Service {
	e := server.NewEcho(log, "prometheus")
	s := &Service{echo: e, log: log, sessions: sessions, backlog: backlog}
	e.GET("/health", s.handleHealth)
	e.POST("/api/v1/prometheus/generate", s.handleGenerate())
	e.GET("/api/v1/prometheus/sessions/:id", s.handleGetSession)
	return s
}

func (s *Service) handleGenerate() func(echo.Context) error {
	type GenerateForm struct {
		BookingID    string          `json:"bookingId" validate:"required"`
		StudentEmail string          `json:"studentEmail" validate:"required,email"`
		Universities []string        `json:"universities" validate:"required,min=1"`
		Metadata     json.RawMessage `json:"metadata"`
	}
	validate := server.NewValidator()
	return func(c echo.Context) error {
		form := new(GenerateForm)
		if err := (&echo.DefaultBinder{}).BindBody(c, form); err != nil {
			return err
		}
		if err := validate.Struct(form); err != nil {
			return err
		}
		session, err := s.sessions.Generate(c.Request().Context(), application.GenerationRequest{
			BookingID:    form.BookingID,
			StudentEmail: form.StudentEmail,
			Universities: form.Universities,
			Metadata:     form.Metadata,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusAccepted, server.Envelope{Success: true, Data: session, Message: "Generation queued"})
	}
}

func (s *Service) handleGetSession(c echo.Context) error {
	session, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, server.Envelope{Success: true, Data: session})
}

func (s *Service) handleHealth(c echo.Context) error {
	type Health struct {
		Status  string `json:"status"`
		Pending *int64 `json:"pending_jobs,omitempty"`
	}
	h := Health{Status: "ok"}
	if s.backlog != nil {
		n, err := s.backlog.Pending(c.Request().Context())
		if err != nil {
			s.log.Warnw("reading generation backlog", zap.Error(err))
			h.Status = "degraded"
		} else {
			h.Pending = &n
		}
	}
	return c.JSON(http.StatusOK, h)
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Service) ListenAndServe(addr string) error {
	return s.echo.Start(addr)
}

func (s *Service) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
