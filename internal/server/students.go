package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

func (s *Server) handleStudentDashboard(c echo.Context) error {
	d, err := s.students.Dashboard(emailParam(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toDashboard(d))
}

func (s *Server) handleStudentBookings(c echo.Context) error {
	bookings, err := s.students.Bookings(emailParam(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toBookings(bookings))
}

func (s *Server) handleStudentInterviews(c echo.Context) error {
	interviews, err := s.students.Interviews(emailParam(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toInterviews(interviews))
}

func (s *Server) handleGetAvailability(c echo.Context) error {
	slots, err := s.students.Availability(emailParam(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toSlots(slots))
}

func (s *Server) handleSetAvailability() func(echo.Context) error {
	type SlotForm struct {
		DayOfWeek *int   `json:"day_of_week" validate:"required"`
		StartTime string `json:"start_time" validate:"required"`
		EndTime   string `json:"end_time" validate:"required"`
	}
	type AvailabilityForm struct {
		Slots []SlotForm `json:"slots" validate:"dive"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		form := new(AvailabilityForm)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		slots := make([]domain.AvailabilitySlot, 0, len(form.Slots))
		for _, f := range form.Slots {
			slots = append(slots, domain.AvailabilitySlot{DayOfWeek: *f.DayOfWeek, StartTime: f.StartTime, EndTime: f.EndTime})
		}
		saved, err := s.students.SetAvailability(emailParam(c), slots)
		if err != nil {
			return err
		}
		return respondMessage(c, http.StatusOK, "Availability updated", toSlots(saved))
	}
}

func (s *Server) handleTutorInterviews(c echo.Context) error {
	interviews, err := s.students.TutorInterviews(emailParam(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toInterviews(interviews))
}

func (s *Server) handleUpdateTutorInterview() func(echo.Context) error {
	type InterviewFields struct {
		Status *domain.InterviewStatus `json:"status" validate:"omitempty,oneof=scheduled completed cancelled no_show"`
		Notes  *string                 `json:"notes"`
	}
	validate := NewValidator()
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		form := new(InterviewFields)
		if err := bindForm(c, validate, form); err != nil {
			return err
		}
		i, err := s.students.UpdateTutorInterview(emailParam(c), id, application.InterviewUpdate{Status: form.Status, Notes: form.Notes})
		if err != nil {
			return err
		}
		return respondMessage(c, http.StatusOK, "Interview updated", toInterviewInfo(i))
	}
}
