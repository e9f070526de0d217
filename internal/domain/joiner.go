package domain

import (
	"strings"
	"time"
)

type JoinerStatus string

const (
	JoinerPending   JoinerStatus = "pending"
	JoinerReviewing JoinerStatus = "reviewing"
	JoinerApproved  JoinerStatus = "approved"
	JoinerRejected  JoinerStatus = "rejected"
)

func (s JoinerStatus) Valid() bool {
	switch s {
	case JoinerPending, JoinerReviewing, JoinerApproved, JoinerRejected:
		return true
	}
	return false
}

// Joiner is a tutor application.
type Joiner struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	University   string
	YearOfStudy  string
	Subjects     []string
	Experience   string
	Availability string
	Status       JoinerStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (j *Joiner) FullName() string {
	return strings.TrimSpace(j.FirstName + " " + j.LastName)
}

func NewJoiner(j Joiner) (Joiner, error) {
	j.Email = NormalizeEmail(j.Email)
	j.FirstName = strings.TrimSpace(j.FirstName)
	j.LastName = strings.TrimSpace(j.LastName)
	j.University = strings.TrimSpace(j.University)
	if j.FirstName == "" {
		return j, NewValidationError("first_name", "required")
	}
	if j.LastName == "" {
		return j, NewValidationError("last_name", "required")
	}
	if !ValidateEmail(j.Email) {
		return j, NewValidationError("email", "invalid email '%s'", j.Email)
	}
	if j.University == "" {
		return j, NewValidationError("university", "required")
	}
	if len(j.Subjects) == 0 {
		return j, NewValidationError("subjects", "at least one subject required")
	}
	j.Status = JoinerPending
	return j, nil
}

type JoinersRepository interface {
	Create(j Joiner) (Joiner, error)
	Update(j Joiner) error
	Delete(id int64) error
	GetByID(id int64) (Joiner, error)
	GetByEmail(email string) (Joiner, error)
	List(status JoinerStatus) ([]Joiner, error)
}
