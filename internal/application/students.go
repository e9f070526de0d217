package application

import (
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type Dashboard struct {
	User         domain.User               `json:"user"`
	Bookings     []domain.Booking          `json:"bookings"`
	Upcoming     []domain.Interview        `json:"upcoming_interviews"`
	Availability []domain.AvailabilitySlot `json:"availability"`
}

type InterviewUpdate struct {
	Status *domain.InterviewStatus
	Notes  *string
}

type StudentsService struct {
	repo domain.StudentsRepository
	now  func() time.Time
}

func NewStudentsService(repo domain.StudentsRepository) *StudentsService {
	return &StudentsService{repo: repo, now: time.Now}
}

func (s *StudentsService) user(email string) (domain.User, error) {
	return s.repo.GetUserByEmail(domain.NormalizeEmail(email))
}

func (s *StudentsService) Dashboard(email string) (Dashboard, error) {
	u, err := s.user(email)
	if err != nil {
		return Dashboard{}, err
	}
	bookings, err := s.repo.GetBookings(u.ID, u.Email)
	if err != nil {
		return Dashboard{}, err
	}
	interviews, err := s.repo.GetStudentInterviews(u.ID)
	if err != nil {
		return Dashboard{}, err
	}
	slots, err := s.repo.GetAvailability(u.ID)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.now()
	upcoming := make([]domain.Interview, 0, len(interviews))
	for _, i := range interviews {
		if i.Status == domain.InterviewScheduled && i.ScheduledAt.After(now) {
			upcoming = append(upcoming, i)
		}
	}
	return Dashboard{User: u, Bookings: bookings, Upcoming: upcoming, Availability: slots}, nil
}

func (s *StudentsService) Bookings(email string) ([]domain.Booking, error) {
	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	return s.repo.GetBookings(u.ID, u.Email)
}

func (s *StudentsService) Interviews(email string) ([]domain.Interview, error) {
	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	return s.repo.GetStudentInterviews(u.ID)
}

func (s *StudentsService) Availability(email string) ([]domain.AvailabilitySlot, error) {
	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	return s.repo.GetAvailability(u.ID)
}

// SetAvailability replaces all slots of the student.
func (s *StudentsService) SetAvailability(email string, slots []domain.AvailabilitySlot) ([]domain.AvailabilitySlot, error) {
	for _, slot := range slots {
		if err := slot.Validate(); err != nil {
			return nil, err
		}
	}
	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	return s.repo.ReplaceAvailability(u.ID, slots)
}

func (s *StudentsService) TutorInterviews(email string) ([]domain.Interview, error) {
	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	return s.repo.GetTutorInterviews(u.ID)
}

// UpdateTutorInterview changes an interview assigned to the tutor. Interviews
// of other tutors are reported as not found.
func (s *StudentsService) UpdateTutorInterview(email string, id int64, u InterviewUpdate) (domain.Interview, error) {
	tutor, err := s.user(email)
	if err != nil {
		return domain.Interview{}, err
	}
	i, err := s.repo.GetInterview(id)
	if err != nil {
		return domain.Interview{}, err
	}
	if i.TutorID == nil || *i.TutorID != tutor.ID {
		return domain.Interview{}, domain.ErrInterviewNotFound
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return domain.Interview{}, domain.NewValidationError("status", "unknown status '%s'", *u.Status)
		}
		i.Status = *u.Status
	}
	if u.Notes != nil {
		i.Notes = *u.Notes
	}
	if err := s.repo.UpdateInterview(i); err != nil {
		return domain.Interview{}, err
	}
	return i, nil
}
