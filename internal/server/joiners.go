package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

func (s *Server) handleCreateJoiner() func(echo.Context) error {
	type JoinerForm struct {
		FirstName    string   `json:"first_name" validate:"required"`
		LastName     string   `json:"last_name" validate:"required"`
		Email        string   `json:"email" validate:"required,email"`
		Phone        string   `json:"phone"`
		University   string   `json:"university" validate:"required"`
		YearOfStudy  string   `json:"year_of_study"`
		Subjects     []string `json:"subjects" validate:"required,min=1"`
		Experience   string   `json:"experience"`
		Availability string   `json:"availability"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		form := new(JoinerForm)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		j, err := s.joiners.Apply(c.Request().Context(), domain.Joiner{
			FirstName:    form.FirstName,
			LastName:     form.LastName,
			Email:        form.Email,
			Phone:        form.Phone,
			University:   form.University,
			YearOfStudy:  form.YearOfStudy,
			Subjects:     form.Subjects,
			Experience:   form.Experience,
			Availability: form.Availability,
		})
		if err != nil {
			return err
		}
		return respondMessage(c, http.StatusCreated, "Application submitted", toJoinerInfo(j))
	}
}

func (s *Server) handleListJoiners(c echo.Context) error {
	status := domain.JoinerStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return domain.NewValidationError("status", "unknown status '%s'", status)
	}
	joiners, err := s.joiners.List(status)
	if err != nil {
		return err
	}
	data := []Joiner{}
	for _, j := range joiners {
		data = append(data, toJoinerInfo(j))
	}
	return respond(c, http.StatusOK, data)
}

func (s *Server) handleGetJoiner(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	j, err := s.joiners.Get(id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toJoinerInfo(j))
}

func (s *Server) handleGetJoinerByEmail(c echo.Context) error {
	j, err := s.joiners.GetByEmail(emailParam(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toJoinerInfo(j))
}

func (s *Server) handleUpdateJoiner() func(echo.Context) error {
	type JoinerFields struct {
		FirstName    *string              `json:"first_name"`
		LastName     *string              `json:"last_name"`
		Phone        *string              `json:"phone"`
		University   *string              `json:"university"`
		YearOfStudy  *string              `json:"year_of_study"`
		Subjects     []string             `json:"subjects"`
		Experience   *string              `json:"experience"`
		Availability *string              `json:"availability"`
		Status       *domain.JoinerStatus `json:"status" validate:"omitempty,oneof=pending reviewing approved rejected"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		form := new(JoinerFields)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		j, err := s.joiners.Update(id, application.JoinerUpdate{
			FirstName:    form.FirstName,
			LastName:     form.LastName,
			Phone:        form.Phone,
			University:   form.University,
			YearOfStudy:  form.YearOfStudy,
			Subjects:     form.Subjects,
			Experience:   form.Experience,
			Availability: form.Availability,
			Status:       form.Status,
		})
		if err != nil {
			return err
		}
		return respondMessage(c, http.StatusOK, "Application updated", toJoinerInfo(j))
	}
}

func (s *Server) handleDeleteJoiner(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := s.joiners.Delete(id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Application deleted", nil)
}
