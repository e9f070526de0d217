package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

func (s *Server) handleCreateSubscription() func(echo.Context) error {
	type SubscriptionForm struct {
		Email           string      `json:"email" validate:"required,email"`
		Tier            domain.Tier `json:"subscription_tier"`
		OptInNewsletter bool        `json:"opt_in_newsletter"`
		FirstName       string      `json:"first_name"`
		Source          string      `json:"source"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		form := new(SubscriptionForm)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		sub, err := s.subscriptions.Create(c.Request().Context(), application.SubscriptionInput{
			Email:           form.Email,
			Tier:            form.Tier,
			OptInNewsletter: form.OptInNewsletter,
			FirstName:       form.FirstName,
			Source:          form.Source,
		})
		if err != nil {
			return err
		}
		return respondMessage(c, http.StatusCreated, "Subscription created", toSubscriptionInfo(sub))
	}
}

func (s *Server) handleListSubscriptions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	subs, err := s.subscriptions.List(limit)
	if err != nil {
		return err
	}
	data := []Subscription{}
	for _, sub := range subs {
		data = append(data, toSubscriptionInfo(sub))
	}
	return respond(c, http.StatusOK, data)
}

func (s *Server) handleGetSubscription(c echo.Context) error {
	sub, err := s.subscriptions.Get(emailParam(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toSubscriptionInfo(sub))
}

func (s *Server) handleUpdateSubscription() func(echo.Context) error {
	type SubscriptionFields struct {
		Tier            *domain.Tier `json:"subscription_tier"`
		OptInNewsletter *bool        `json:"opt_in_newsletter"`
		FirstName       *string      `json:"first_name"`
		Source          *string      `json:"source"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		form := new(SubscriptionFields)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		sub, err := s.subscriptions.Update(emailParam(c), application.SubscriptionUpdate{
			Tier:            form.Tier,
			OptInNewsletter: form.OptInNewsletter,
			FirstName:       form.FirstName,
			Source:          form.Source,
		})
		if err != nil {
			return err
		}
		return respondMessage(c, http.StatusOK, "Subscription updated", toSubscriptionInfo(sub))
	}
}

func (s *Server) handleDeleteSubscription(c echo.Context) error {
	if err := s.subscriptions.Delete(emailParam(c)); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Subscription deleted", nil)
}

func (s *Server) handleUnsubscribe(c echo.Context) error {
	sub, err := s.subscriptions.Unsubscribe(emailParam(c), c.QueryParam("token"))
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Unsubscribed", toSubscriptionInfo(sub))
}

func (s *Server) handleResubscribe(c echo.Context) error {
	sub, err := s.subscriptions.Resubscribe(emailParam(c))
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Resubscribed", toSubscriptionInfo(sub))
}

func (s *Server) handleCheckAccess(c echo.Context) error {
	access, err := s.subscriptions.CheckAccess(emailParam(c), c.QueryParam("resource_type"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, access)
}
