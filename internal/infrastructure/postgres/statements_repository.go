package postgres

import (
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type StatementsRepository struct {
	db *sqlx.DB
}

func NewStatementsRepository(db *sqlx.DB) *StatementsRepository {
	return &StatementsRepository{db}
}

const statementColumns = `id, email, first_name, last_name, service_type, university, notes, file_path, file_name, feedback_path, status, reviewer, reviewer_notes, stripe_session_id, amount, created_at, updated_at`

func (r *StatementsRepository) Create(ps domain.PersonalStatement) (domain.PersonalStatement, error) {
	err := r.db.QueryRow(
		`INSERT INTO personal_statements (email, first_name, last_name, service_type, university, notes, file_path, file_name, status, stripe_session_id, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		ps.Email, ps.FirstName, ps.LastName, string(ps.ServiceType), ps.University, ps.Notes,
		ps.FilePath, ps.FileName, string(ps.Status), ps.StripeSessionID, ps.Amount,
	).Scan(&ps.ID, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		return domain.PersonalStatement{}, err
	}
	return ps, nil
}

func (r *StatementsRepository) Update(ps domain.PersonalStatement) error {
	row := toStatementRow(ps)
	row.UpdatedAt = time.Now().UTC()
	const q = `
	UPDATE
			personal_statements
	SET
			"file_path" = :file_path,
			"file_name" = :file_name,
			"feedback_path" = :feedback_path,
			"status" = :status,
			"reviewer" = :reviewer,
			"reviewer_notes" = :reviewer_notes,
			"stripe_session_id" = :stripe_session_id,
			"updated_at" = :updated_at
	WHERE
			id = :id
	`
	res, err := r.db.NamedExec(q, row)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrStatementNotFound
	}
	return nil
}

func (r *StatementsRepository) Delete(id int64) error {
	res, err := r.db.Exec("DELETE FROM personal_statements WHERE id=$1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrStatementNotFound
	}
	return nil
}

func (r *StatementsRepository) GetByID(id int64) (domain.PersonalStatement, error) {
	var row PersonalStatement
	err := r.db.Get(&row, "SELECT "+statementColumns+" FROM personal_statements WHERE id=$1", id)
	if err != nil {
		return domain.PersonalStatement{}, translate(err, domain.ErrStatementNotFound, nil)
	}
	return toStatement(row), nil
}

func (r *StatementsRepository) List(filter domain.StatementFilter) ([]domain.PersonalStatement, error) {
	var conds []string
	var args []interface{}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, "status=$"+strconv.Itoa(len(args)))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		conds = append(conds, "email=$"+strconv.Itoa(len(args)))
	}
	q := "SELECT " + statementColumns + " FROM personal_statements"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	var rows []PersonalStatement
	if err := r.db.Select(&rows, q, args...); err != nil {
		return nil, err
	}
	items := make([]domain.PersonalStatement, len(rows))
	for i, row := range rows {
		items[i] = toStatement(row)
	}
	return items, nil
}

func toStatement(row PersonalStatement) domain.PersonalStatement {
	return domain.PersonalStatement{
		ID:              row.ID,
		Email:           row.Email,
		FirstName:       row.FirstName,
		LastName:        row.LastName,
		ServiceType:     domain.ServiceType(row.ServiceType),
		University:      row.University,
		Notes:           row.Notes,
		FilePath:        row.FilePath,
		FileName:        row.FileName,
		FeedbackPath:    row.FeedbackPath,
		Status:          domain.StatementStatus(row.Status),
		Reviewer:        row.Reviewer,
		ReviewerNotes:   row.ReviewerNotes,
		StripeSessionID: row.StripeSessionID,
		Amount:          row.Amount,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func toStatementRow(ps domain.PersonalStatement) PersonalStatement {
	return PersonalStatement{
		ID:              ps.ID,
		Email:           ps.Email,
		FirstName:       ps.FirstName,
		LastName:        ps.LastName,
		ServiceType:     string(ps.ServiceType),
		University:      ps.University,
		Notes:           ps.Notes,
		FilePath:        ps.FilePath,
		FileName:        ps.FileName,
		FeedbackPath:    ps.FeedbackPath,
		Status:          string(ps.Status),
		Reviewer:        ps.Reviewer,
		ReviewerNotes:   ps.ReviewerNotes,
		StripeSessionID: ps.StripeSessionID,
		Amount:          ps.Amount,
		CreatedAt:       ps.CreatedAt,
		UpdatedAt:       ps.UpdatedAt,
	}
}
