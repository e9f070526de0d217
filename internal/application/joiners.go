package application

import (
	"context"
	"errors"
	"strings"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"go.uber.org/zap"
)

type JoinerUpdate struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	University   *string
	YearOfStudy  *string
	Subjects     []string
	Experience   *string
	Availability *string
	Status       *domain.JoinerStatus
}

type JoinersService struct {
	log           *zap.SugaredLogger
	repo          domain.JoinersRepository
	tasks         TaskQueue
	notifications Notifications
}

func NewJoinersService(log *zap.SugaredLogger, repo domain.JoinersRepository, tasks TaskQueue, notifications Notifications) *JoinersService {
	return &JoinersService{log: log, repo: repo, tasks: tasks, notifications: notifications}
}

// Apply stores a new application. Confirmation and operator alert emails
// are queued and never fail the request.
func (s *JoinersService) Apply(ctx context.Context, in domain.Joiner) (domain.Joiner, error) {
	j, err := domain.NewJoiner(in)
	if err != nil {
		return domain.Joiner{}, err
	}
	if _, err := s.repo.GetByEmail(j.Email); err == nil {
		return domain.Joiner{}, domain.ErrJoinerExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Joiner{}, err
	}
	j, err = s.repo.Create(j)
	if err != nil {
		return domain.Joiner{}, err
	}
	if s.notifications != nil {
		created := j
		s.tasks.Enqueue("joiner_confirmation", func(ctx context.Context) error {
			return s.notifications.JoinerConfirmation(ctx, created)
		})
		s.tasks.Enqueue("joiner_alert", func(ctx context.Context) error {
			return s.notifications.JoinerAlert(ctx, created)
		})
	}
	return j, nil
}

func (s *JoinersService) List(status domain.JoinerStatus) ([]domain.Joiner, error) {
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status '%s'", status)
	}
	return s.repo.List(status)
}

func (s *JoinersService) Get(id int64) (domain.Joiner, error) {
	return s.repo.GetByID(id)
}

func (s *JoinersService) GetByEmail(email string) (domain.Joiner, error) {
	return s.repo.GetByEmail(domain.NormalizeEmail(email))
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (s *JoinersService) Update(id int64, u JoinerUpdate) (domain.Joiner, error) {
	j, err := s.repo.GetByID(id)
	if err != nil {
		return domain.Joiner{}, err
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return domain.Joiner{}, domain.NewValidationError("status", "unknown status '%s'", *u.Status)
		}
		j.Status = *u.Status
	}
	setString(&j.FirstName, u.FirstName)
	setString(&j.LastName, u.LastName)
	setString(&j.Phone, u.Phone)
	setString(&j.University, u.University)
	setString(&j.YearOfStudy, u.YearOfStudy)
	setString(&j.Experience, u.Experience)
	setString(&j.Availability, u.Availability)
	if u.Subjects != nil {
		j.Subjects = u.Subjects
	}
	if j.FirstName == "" || j.LastName == "" {
		return domain.Joiner{}, domain.NewValidationError("name", "first and last name are required")
	}
	if err := s.repo.Update(j); err != nil {
		return domain.Joiner{}, err
	}
	return j, nil
}

func (s *JoinersService) Delete(id int64) error {
	return s.repo.Delete(id)
}
