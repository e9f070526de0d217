package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/dispatch"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type SendResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

func toSendResult(s dispatch.Summary) SendResult {
	return SendResult{Sent: s.Sent, Failed: s.Failed, Total: s.Total}
}

func (s *Server) handleSendNewsletter() func(echo.Context) error {
	type NewsletterForm struct {
		Subject     string        `json:"subject" validate:"required"`
		Content     string        `json:"content" validate:"required"`
		TargetTiers []domain.Tier `json:"target_tiers"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		form := new(NewsletterForm)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		summary, err := s.emails.SendNewsletter(c.Request().Context(), application.Campaign{Subject: form.Subject, Content: form.Content}, form.TargetTiers)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, toSendResult(summary))
	}
}

func (s *Server) handleSendCustomEmail() func(echo.Context) error {
	type CustomEmailForm struct {
		Emails            []string      `json:"emails"`
		Subject           string        `json:"subject" validate:"required"`
		Content           string        `json:"content" validate:"required"`
		SubscriptionTiers []domain.Tier `json:"subscription_tiers"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		form := new(CustomEmailForm)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		campaign := application.Campaign{Subject: form.Subject, Content: form.Content}
		summary, err := s.emails.SendCustom(c.Request().Context(), campaign, form.Emails, form.SubscriptionTiers)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, toSendResult(summary))
	}
}

func (s *Server) handleSendPackageEmail() func(echo.Context) error {
	type PackageEmailForm struct {
		PackageType string `json:"package_type" validate:"required"`
		Subject     string `json:"subject" validate:"required"`
		Content     string `json:"content" validate:"required"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		form := new(PackageEmailForm)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		campaign := application.Campaign{Subject: form.Subject, Content: form.Content}
		summary, err := s.emails.SendToPackage(c.Request().Context(), campaign, form.PackageType)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, toSendResult(summary))
	}
}

func (s *Server) handleEmailStats(c echo.Context) error {
	stats, err := s.emails.Stats()
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}
