package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type SessionsRepository struct {
	db *sqlx.DB
}

func NewSessionsRepository(db *sqlx.DB) *SessionsRepository {
	return &SessionsRepository{db}
}

func (r *SessionsRepository) Create(s domain.InterviewSession) error {
	metadata := []byte(s.Metadata)
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}
	_, err := r.db.Exec(
		`INSERT INTO mock_interview_sessions (id, booking_id, student_email, universities, metadata, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.BookingID, s.StudentEmail, pq.StringArray(s.Universities), metadata, string(s.Status), s.CreatedAt, s.UpdatedAt,
	)
	return translate(err, nil, domain.ErrConflict)
}

func (r *SessionsRepository) GetByID(id string) (domain.InterviewSession, error) {
	var row InterviewSession
	err := r.db.Get(&row,
		"SELECT id, booking_id, student_email, universities, metadata, status, created_at, updated_at FROM mock_interview_sessions WHERE id=$1",
		id,
	)
	if err != nil {
		return domain.InterviewSession{}, translate(err, domain.ErrSessionNotFound, nil)
	}
	return domain.InterviewSession{
		ID:           row.ID,
		BookingID:    row.BookingID,
		StudentEmail: row.StudentEmail,
		Universities: []string(row.Universities),
		Metadata:     row.Metadata,
		Status:       domain.SessionStatus(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
