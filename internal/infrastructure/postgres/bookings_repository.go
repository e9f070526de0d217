package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type BookingsRepository struct {
	db *sqlx.DB
}

func NewBookingsRepository(db *sqlx.DB) *BookingsRepository {
	return &BookingsRepository{db}
}

func (r *BookingsRepository) ListByPackage(packageType string, limit int) ([]domain.Booking, error) {
	var rows []Booking
	err := r.db.Select(&rows,
		"SELECT "+bookingColumns+" FROM bookings WHERE package_type=$1 ORDER BY created_at DESC LIMIT $2",
		packageType, limit,
	)
	if err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}
