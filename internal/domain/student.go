package domain

import "time"

type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Role      string
}

type Booking struct {
	ID          int64
	UserID      *int64
	Email       string
	PackageType string
	Status      string
	ScheduledAt *time.Time
	CreatedAt   time.Time
}

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewCancelled InterviewStatus = "cancelled"
	InterviewNoShow    InterviewStatus = "no_show"
)

func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled, InterviewNoShow:
		return true
	}
	return false
}

type Interview struct {
	ID          int64
	StudentID   int64
	TutorID     *int64
	BookingID   *int64
	ScheduledAt time.Time
	Status      InterviewStatus
	Notes       string
}

type AvailabilitySlot struct {
	ID        int64
	StudentID int64
	DayOfWeek int
	StartTime string
	EndTime   string
}

func parseClock(v string) (time.Time, error) {
	return time.Parse("15:04", v)
}

func (a AvailabilitySlot) Validate() error {
	if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
		return NewValidationError("day_of_week", "must be between 0 and 6")
	}
	start, err := parseClock(a.StartTime)
	if err != nil {
		return NewValidationError("start_time", "expected HH:MM, got '%s'", a.StartTime)
	}
	end, err := parseClock(a.EndTime)
	if err != nil {
		return NewValidationError("end_time", "expected HH:MM, got '%s'", a.EndTime)
	}
	if !start.Before(end) {
		return NewValidationError("end_time", "must be after start_time (%s)", a.StartTime)
	}
	return nil
}

type StudentsRepository interface {
	GetUserByEmail(email string) (User, error)
	GetBookings(userID int64, email string) ([]Booking, error)
	GetStudentInterviews(studentID int64) ([]Interview, error)
	GetTutorInterviews(tutorID int64) ([]Interview, error)
	GetInterview(id int64) (Interview, error)
	UpdateInterview(i Interview) error
	GetAvailability(studentID int64) ([]AvailabilitySlot, error)
	ReplaceAvailability(studentID int64, slots []AvailabilitySlot) ([]AvailabilitySlot, error)
}

type BookingsRepository interface {
	ListByPackage(packageType string, limit int) ([]Booking, error)
}
