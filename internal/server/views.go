package server

import (
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type Subscription struct {
	ID              int64       `json:"id"`
	Email           string      `json:"email"`
	FirstName       string      `json:"first_name"`
	Tier            domain.Tier `json:"subscription_tier"`
	OptInNewsletter bool        `json:"opt_in_newsletter"`
	Source          string      `json:"source"`
	Active          bool        `json:"active"`
	SubscribedAt    time.Time   `json:"subscribed_at"`
	UnsubscribedAt  *time.Time  `json:"unsubscribed_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func toSubscriptionInfo(s domain.Subscription) Subscription {
	return Subscription{
		ID:              s.ID,
		Email:           s.Email,
		FirstName:       s.FirstName,
		Tier:            s.Tier,
		OptInNewsletter: s.OptInNewsletter,
		Source:          s.Source,
		Active:          s.Active(),
		SubscribedAt:    s.SubscribedAt,
		UnsubscribedAt:  s.UnsubscribedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type Joiner struct {
	ID           int64               `json:"id"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	University   string              `json:"university"`
	YearOfStudy  string              `json:"year_of_study"`
	Subjects     []string            `json:"subjects"`
	Experience   string              `json:"experience"`
	Availability string              `json:"availability"`
	Status       domain.JoinerStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func toJoinerInfo(j domain.Joiner) Joiner {
	subjects := j.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	return Joiner{
		ID:           j.ID,
		FirstName:    j.FirstName,
		LastName:     j.LastName,
		Email:        j.Email,
		Phone:        j.Phone,
		University:   j.University,
		YearOfStudy:  j.YearOfStudy,
		Subjects:     subjects,
		Experience:   j.Experience,
		Availability: j.Availability,
		Status:       j.Status,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

type Statement struct {
	ID            int64                  `json:"id"`
	Email         string                 `json:"email"`
	FirstName     string                 `json:"first_name"`
	LastName      string                 `json:"last_name"`
	ServiceType   domain.ServiceType     `json:"service_type"`
	University    string                 `json:"university"`
	Notes         string                 `json:"notes"`
	FileName      string                 `json:"file_name"`
	HasFeedback   bool                   `json:"has_feedback"`
	Status        domain.StatementStatus `json:"status"`
	Reviewer      string                 `json:"reviewer"`
	ReviewerNotes string                 `json:"reviewer_notes"`
	Amount        int64                  `json:"amount"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func toStatementInfo(ps domain.PersonalStatement) Statement {
	return Statement{
		ID:            ps.ID,
		Email:         ps.Email,
		FirstName:     ps.FirstName,
		LastName:      ps.LastName,
		ServiceType:   ps.ServiceType,
		University:    ps.University,
		Notes:         ps.Notes,
		FileName:      ps.FileName,
		HasFeedback:   ps.FeedbackPath != "",
		Status:        ps.Status,
		Reviewer:      ps.Reviewer,
		ReviewerNotes: ps.ReviewerNotes,
		Amount:        ps.Amount,
		CreatedAt:     ps.CreatedAt,
		UpdatedAt:     ps.UpdatedAt,
	}
}

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type Booking struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	PackageType string     `json:"package_type"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Interview struct {
	ID          int64                  `json:"id"`
	StudentID   int64                  `json:"student_id"`
	TutorID     *int64                 `json:"tutor_id"`
	BookingID   *int64                 `json:"booking_id"`
	ScheduledAt time.Time              `json:"scheduled_at"`
	Status      domain.InterviewStatus `json:"status"`
	Notes       string                 `json:"notes"`
}

type AvailabilitySlot struct {
	ID        int64  `json:"id,omitempty"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type Dashboard struct {
	User         User               `json:"user"`
	Bookings     []Booking          `json:"bookings"`
	Upcoming     []Interview        `json:"upcoming_interviews"`
	Availability []AvailabilitySlot `json:"availability"`
}

func toBookings(items []domain.Booking) []Booking {
	data := []Booking{}
	for _, b := range items {
		data = append(data, Booking{
			ID:          b.ID,
			Email:       b.Email,
			PackageType: b.PackageType,
			Status:      b.Status,
			ScheduledAt: b.ScheduledAt,
			CreatedAt:   b.CreatedAt,
		})
	}
	return data
}

func toInterviewInfo(i domain.Interview) Interview {
	return Interview{
		ID:          i.ID,
		StudentID:   i.StudentID,
		TutorID:     i.TutorID,
		BookingID:   i.BookingID,
		ScheduledAt: i.ScheduledAt,
		Status:      i.Status,
		Notes:       i.Notes,
	}
}

func toInterviews(items []domain.Interview) []Interview {
	data := []Interview{}
	for _, i := range items {
		data = append(data, toInterviewInfo(i))
	}
	return data
}

func toSlots(items []domain.AvailabilitySlot) []AvailabilitySlot {
	data := []AvailabilitySlot{}
	for _, a := range items {
		data = append(data, AvailabilitySlot{ID: a.ID, DayOfWeek: a.DayOfWeek, StartTime: a.StartTime, EndTime: a.EndTime})
	}
	return data
}

func toDashboard(d application.Dashboard) Dashboard {
	return Dashboard{
		User: User{
			ID:        d.User.ID,
			Email:     d.User.Email,
			FirstName: d.User.FirstName,
			LastName:  d.User.LastName,
			Role:      d.User.Role,
		},
		Bookings:     toBookings(d.Bookings),
		Upcoming:     toInterviews(d.Upcoming),
		Availability: toSlots(d.Availability),
	}
}
