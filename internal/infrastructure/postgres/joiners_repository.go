package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type JoinersRepository struct {
	db *sqlx.DB
}

func NewJoinersRepository(db *sqlx.DB) *JoinersRepository {
	return &JoinersRepository{db}
}

const joinerColumns = `id, first_name, last_name, email, phone, university, year_of_study, subjects, experience, availability, status, created_at, updated_at`

func (r *JoinersRepository) Create(j domain.Joiner) (domain.Joiner, error) {
	err := r.db.QueryRow(
		`INSERT INTO new_joiners (first_name, last_name, email, phone, university, year_of_study, subjects, experience, availability, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		j.FirstName, j.LastName, j.Email, j.Phone, j.University, j.YearOfStudy, pq.StringArray(j.Subjects), j.Experience, j.Availability, string(j.Status),
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return domain.Joiner{}, translate(err, nil, domain.ErrJoinerExists)
	}
	return j, nil
}

func (r *JoinersRepository) Update(j domain.Joiner) error {
	row := toJoinerRow(j)
	row.UpdatedAt = time.Now().UTC()
	const q = `
	UPDATE
			new_joiners
	SET
			"first_name" = :first_name,
			"last_name" = :last_name,
			"email" = :email,
			"phone" = :phone,
			"university" = :university,
			"year_of_study" = :year_of_study,
			"subjects" = :subjects,
			"experience" = :experience,
			"availability" = :availability,
			"status" = :status,
			"updated_at" = :updated_at
	WHERE
			id = :id
	`
	res, err := r.db.NamedExec(q, row)
	if err != nil {
		return translate(err, nil, domain.ErrJoinerExists)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrJoinerNotFound
	}
	return nil
}

func (r *JoinersRepository) Delete(id int64) error {
	res, err := r.db.Exec("DELETE FROM new_joiners WHERE id=$1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrJoinerNotFound
	}
	return nil
}

func (r *JoinersRepository) find(q string, args ...interface{}) (domain.Joiner, error) {
	var row Joiner
	if err := r.db.Get(&row, q, args...); err != nil {
		return domain.Joiner{}, translate(err, domain.ErrJoinerNotFound, nil)
	}
	return toJoiner(row), nil
}

func (r *JoinersRepository) GetByID(id int64) (domain.Joiner, error) {
	return r.find("SELECT "+joinerColumns+" FROM new_joiners WHERE id=$1", id)
}

func (r *JoinersRepository) GetByEmail(email string) (domain.Joiner, error) {
	return r.find("SELECT "+joinerColumns+" FROM new_joiners WHERE email=$1", email)
}

func (r *JoinersRepository) List(status domain.JoinerStatus) ([]domain.Joiner, error) {
	var rows []Joiner
	var err error
	if status == "" {
		err = r.db.Select(&rows, "SELECT "+joinerColumns+" FROM new_joiners ORDER BY created_at DESC")
	} else {
		err = r.db.Select(&rows, "SELECT "+joinerColumns+" FROM new_joiners WHERE status=$1 ORDER BY created_at DESC", string(status))
	}
	if err != nil {
		return nil, err
	}
	joiners := make([]domain.Joiner, len(rows))
	for i, row := range rows {
		joiners[i] = toJoiner(row)
	}
	return joiners, nil
}

func toJoiner(row Joiner) domain.Joiner {
	return domain.Joiner{
		ID:           row.ID,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Email:        row.Email,
		Phone:        row.Phone,
		University:   row.University,
		YearOfStudy:  row.YearOfStudy,
		Subjects:     []string(row.Subjects),
		Experience:   row.Experience,
		Availability: row.Availability,
		Status:       domain.JoinerStatus(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toJoinerRow(j domain.Joiner) Joiner {
	return Joiner{
		ID:           j.ID,
		FirstName:    j.FirstName,
		LastName:     j.LastName,
		Email:        j.Email,
		Phone:        j.Phone,
		University:   j.University,
		YearOfStudy:  j.YearOfStudy,
		Subjects:     pq.StringArray(j.Subjects),
		Experience:   j.Experience,
		Availability: j.Availability,
		Status:       string(j.Status),
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}
