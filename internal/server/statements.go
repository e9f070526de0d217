package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/payments"
	"go.uber.org/zap"
)

// formFile opens the uploaded "file" part. The caller closes the returned body.
func formFile(c echo.Context) (application.FileUpload, io.Closer, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return application.FileUpload{}, nil, domain.NewValidationError("file", "required")
		}
		return application.FileUpload{}, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form").SetInternal(err)
	}
	if fh.Size > application.MaxStatementSize {
		return application.FileUpload{}, nil, domain.NewValidationError("file", "file exceeds %d MB", application.MaxStatementSize>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return application.FileUpload{}, nil, err
	}
	return application.FileUpload{Name: fh.Filename, Size: fh.Size, Body: f}, f, nil
}

type SubmittedStatement struct {
	Statement   Statement `json:"statement"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
}

func (s *Server) handleSubmitStatement() func(echo.Context) error {
	type StatementForm struct {
		Email       string `form:"email" validate:"required,email"`
		FirstName   string `form:"first_name" validate:"required"`
		LastName    string `form:"last_name" validate:"required"`
		ServiceType string `form:"service_type"`
		University  string `form:"university"`
		Notes       string `form:"notes"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		form := new(StatementForm)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		file, closer, err := formFile(c)
		if err != nil {
			return err
		}
		defer closer.Close()

		res, err := s.statements.Submit(c.Request().Context(), application.StatementSubmission{
			Email:       form.Email,
			FirstName:   form.FirstName,
			LastName:    form.LastName,
			ServiceType: domain.ServiceType(form.ServiceType),
			University:  form.University,
			Notes:       form.Notes,
			File:        file,
		})
		if err != nil {
			return err
		}
		data := SubmittedStatement{Statement: toStatementInfo(res.Statement), CheckoutURL: res.CheckoutURL}
		return respondMessage(c, http.StatusCreated, "Personal statement submitted", data)
	}
}

func (s *Server) handleListStatements(c echo.Context) error {
	filter := domain.StatementFilter{
		Status: domain.StatementStatus(c.QueryParam("status")),
		Email:  c.QueryParam("email"),
	}
	items, err := s.statements.List(filter)
	if err != nil {
		return err
	}
	data := []Statement{}
	for _, ps := range items {
		data = append(data, toStatementInfo(ps))
	}
	return respond(c, http.StatusOK, data)
}

func (s *Server) handleGetStatement(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ps, err := s.statements.Get(id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toStatementInfo(ps))
}

func (s *Server) handleReviewStatement() func(echo.Context) error {
	type ReviewForm struct {
		Status        *domain.StatementStatus `json:"status"`
		Reviewer      *string                 `json:"reviewer"`
		ReviewerNotes *string                 `json:"reviewer_notes"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		form := new(ReviewForm)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		ps, err := s.statements.Review(id, application.StatementReview{
			Status:        form.Status,
			Reviewer:      form.Reviewer,
			ReviewerNotes: form.ReviewerNotes,
		})
		if err != nil {
			return err
		}
		return respondMessage(c, http.StatusOK, "Personal statement updated", toStatementInfo(ps))
	}
}

func (s *Server) handleDownloadStatement(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	feedback := c.QueryParam("type") == "feedback"
	url, err := s.statements.DownloadURL(c.Request().Context(), id, feedback)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleUploadFeedback() func(echo.Context) error {
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		file, closer, err := formFile(c)
		if err != nil {
			return err
		}
		defer closer.Close()

		ps, err := s.statements.UploadFeedback(c.Request().Context(), id, file)
		if err != nil {
			return err
		}
		return respondMessage(c, http.StatusOK, "Feedback uploaded", toStatementInfo(ps))
	}
}

func (s *Server) handleStripeWebhook(c echo.Context) error {
	if s.webhooks == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Payments are not configured")
	}
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid body").SetInternal(err)
	}
	ev, err := s.webhooks.ParseWebhook(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Payments are not configured")
		}
		if errors.Is(err, payments.ErrInvalidSignature) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid signature").SetInternal(err)
		}
		return err
	}
	if err := s.statements.HandlePayment(ev); err != nil {
		s.log.Errorw("handling payment event", "event", ev.ID, "type", ev.Type, zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
