package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type EmailLogRepository struct {
	db *sqlx.DB
}

func NewEmailLogRepository(db *sqlx.DB) *EmailLogRepository {
	return &EmailLogRepository{db}
}

func (r *EmailLogRepository) Insert(entry domain.EmailLog) error {
	row := EmailLog{
		Kind:      entry.Kind,
		Subject:   entry.Subject,
		Total:     entry.Total,
		Sent:      entry.Sent,
		Failed:    entry.Failed,
		Errors:    pq.StringArray(entry.Errors),
		CreatedAt: entry.CreatedAt,
	}
	if row.Errors == nil {
		row.Errors = pq.StringArray{}
	}
	_, err := r.db.NamedExec(
		`INSERT INTO email_logs (kind, subject, total, sent, failed, errors, created_at)
		VALUES (:kind, :subject, :total, :sent, :failed, :errors, :created_at)`,
		row,
	)
	return err
}
