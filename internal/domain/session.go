package domain

import (
	"encoding/json"
	"time"
)

type SessionStatus string

const (
	SessionQueued     SessionStatus = "queued"
	SessionGenerating SessionStatus = "generating"
	SessionReady      SessionStatus = "ready"
	SessionFailed     SessionStatus = "failed"
)

// InterviewSession is a mock-interview question set awaiting generation.
type InterviewSession struct {
	ID           string          `json:"id"`
	BookingID    string          `json:"booking_id"`
	StudentEmail string          `json:"student_email"`
	Universities []string        `json:"universities"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	Status       SessionStatus   `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type SessionsRepository interface {
	Create(s InterviewSession) error
	GetByID(id string) (InterviewSession, error)
}
