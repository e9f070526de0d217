package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type StudentsRepository struct {
	db *sqlx.DB
}

func NewStudentsRepository(db *sqlx.DB) *StudentsRepository {
	return &StudentsRepository{db}
}

const (
	bookingColumns   = `id, user_id, email, package_type, status, scheduled_at, created_at`
	interviewColumns = `id, student_id, tutor_id, booking_id, scheduled_at, status, notes`
)

func (r *StudentsRepository) GetUserByEmail(email string) (domain.User, error) {
	var row User
	err := r.db.Get(&row, "SELECT id, email, first_name, last_name, role FROM users WHERE email=$1", email)
	if err != nil {
		return domain.User{}, translate(err, domain.ErrUserNotFound, nil)
	}
	return domain.User{
		ID:        row.ID,
		Email:     row.Email,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Role:      row.Role,
	}, nil
}

// GetBookings returns bookings linked either by user id or by email, as
// guest checkouts are not attached to a user account.
func (r *StudentsRepository) GetBookings(userID int64, email string) ([]domain.Booking, error) {
	var rows []Booking
	err := r.db.Select(&rows,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id=$1 OR email=$2 ORDER BY created_at DESC",
		userID, email,
	)
	if err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

func (r *StudentsRepository) interviews(q string, args ...interface{}) ([]domain.Interview, error) {
	var rows []Interview
	if err := r.db.Select(&rows, q, args...); err != nil {
		return nil, err
	}
	items := make([]domain.Interview, len(rows))
	for i, row := range rows {
		items[i] = toInterview(row)
	}
	return items, nil
}

func (r *StudentsRepository) GetStudentInterviews(studentID int64) ([]domain.Interview, error) {
	return r.interviews("SELECT "+interviewColumns+" FROM interviews WHERE student_id=$1 ORDER BY scheduled_at", studentID)
}

func (r *StudentsRepository) GetTutorInterviews(tutorID int64) ([]domain.Interview, error) {
	return r.interviews("SELECT "+interviewColumns+" FROM interviews WHERE tutor_id=$1 ORDER BY scheduled_at", tutorID)
}

func (r *StudentsRepository) GetInterview(id int64) (domain.Interview, error) {
	var row Interview
	err := r.db.Get(&row, "SELECT "+interviewColumns+" FROM interviews WHERE id=$1", id)
	if err != nil {
		return domain.Interview{}, translate(err, domain.ErrInterviewNotFound, nil)
	}
	return toInterview(row), nil
}

func (r *StudentsRepository) UpdateInterview(i domain.Interview) error {
	res, err := r.db.Exec(
		"UPDATE interviews SET status=$1, notes=$2, scheduled_at=$3 WHERE id=$4",
		string(i.Status), i.Notes, i.ScheduledAt, i.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrInterviewNotFound
	}
	return nil
}

func (r *StudentsRepository) GetAvailability(studentID int64) ([]domain.AvailabilitySlot, error) {
	var rows []Availability
	err := r.db.Select(&rows,
		"SELECT id, student_id, day_of_week, start_time, end_time FROM student_availability WHERE student_id=$1 ORDER BY day_of_week, start_time",
		studentID,
	)
	if err != nil {
		return nil, err
	}
	slots := make([]domain.AvailabilitySlot, len(rows))
	for i, row := range rows {
		slots[i] = domain.AvailabilitySlot(row)
	}
	return slots, nil
}

// ReplaceAvailability swaps the full set of slots within one transaction.
func (r *StudentsRepository) ReplaceAvailability(studentID int64, slots []domain.AvailabilitySlot) ([]domain.AvailabilitySlot, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM student_availability WHERE student_id=$1", studentID); err != nil {
		return nil, fmt.Errorf("clearing availability: %w", err)
	}
	saved := make([]domain.AvailabilitySlot, 0, len(slots))
	for _, s := range slots {
		s.StudentID = studentID
		err := tx.QueryRow(
			"INSERT INTO student_availability (student_id, day_of_week, start_time, end_time) VALUES ($1, $2, $3, $4) RETURNING id",
			studentID, s.DayOfWeek, s.StartTime, s.EndTime,
		).Scan(&s.ID)
		if err != nil {
			return nil, fmt.Errorf("inserting availability: %w", err)
		}
		saved = append(saved, s)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

func toInterview(row Interview) domain.Interview {
	return domain.Interview{
		ID:          row.ID,
		StudentID:   row.StudentID,
		TutorID:     row.TutorID,
		BookingID:   row.BookingID,
		ScheduledAt: row.ScheduledAt,
		Status:      domain.InterviewStatus(row.Status),
		Notes:       row.Notes,
	}
}

func toBookings(rows []Booking) []domain.Booking {
	items := make([]domain.Booking, len(rows))
	for i, row := range rows {
		items[i] = domain.Booking(row)
	}
	return items
}
