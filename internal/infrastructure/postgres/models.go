package postgres

import (
	"time"

	"github.com/lib/pq"
)

type Subscription struct {
	ID              int64      `db:"id"`
	Email           string     `db:"email"`
	FirstName       string     `db:"first_name"`
	Tier            string     `db:"subscription_tier"`
	OptInNewsletter bool       `db:"opt_in_newsletter"`
	Source          string     `db:"source"`
	SubscribedAt    time.Time  `db:"subscribed_at"`
	UnsubscribedAt  *time.Time `db:"unsubscribed_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

type Joiner struct {
	ID           int64          `db:"id"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Email        string         `db:"email"`
	Phone        string         `db:"phone"`
	University   string         `db:"university"`
	YearOfStudy  string         `db:"year_of_study"`
	Subjects     pq.StringArray `db:"subjects"`
	Experience   string         `db:"experience"`
	Availability string         `db:"availability"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type PersonalStatement struct {
	ID              int64     `db:"id"`
	Email           string    `db:"email"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	ServiceType     string    `db:"service_type"`
	University      string    `db:"university"`
	Notes           string    `db:"notes"`
	FilePath        string    `db:"file_path"`
	FileName        string    `db:"file_name"`
	FeedbackPath    string    `db:"feedback_path"`
	Status          string    `db:"status"`
	Reviewer        string    `db:"reviewer"`
	ReviewerNotes   string    `db:"reviewer_notes"`
	StripeSessionID string    `db:"stripe_session_id"`
	Amount          int64     `db:"amount"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type User struct {
	ID        int64  `db:"id"`
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Role      string `db:"role"`
}

type Booking struct {
	ID          int64      `db:"id"`
	UserID      *int64     `db:"user_id"`
	Email       string     `db:"email"`
	PackageType string     `db:"package_type"`
	Status      string     `db:"status"`
	ScheduledAt *time.Time `db:"scheduled_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

type Interview struct {
	ID          int64     `db:"id"`
	StudentID   int64     `db:"student_id"`
	TutorID     *int64    `db:"tutor_id"`
	BookingID   *int64    `db:"booking_id"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Status      string    `db:"status"`
	Notes       string    `db:"notes"`
}

type Availability struct {
	ID        int64  `db:"id"`
	StudentID int64  `db:"student_id"`
	DayOfWeek int    `db:"day_of_week"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

type InterviewSession struct {
	ID           string         `db:"id"`
	BookingID    string         `db:"booking_id"`
	StudentEmail string         `db:"student_email"`
	Universities pq.StringArray `db:"universities"`
	Metadata     []byte         `db:"metadata"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type Resource struct {
	ID        int64  `db:"id"`
	Title     string `db:"title"`
	FilePath  string `db:"file_path"`
	SignedURL string `db:"signed_url"`
	Category  string `db:"category"`
}

type EmailLog struct {
	Kind      string         `db:"kind"`
	Subject   string         `db:"subject"`
	Total     int            `db:"total"`
	Sent      int            `db:"sent"`
	Failed    int            `db:"failed"`
	Errors    pq.StringArray `db:"errors"`
	CreatedAt time.Time      `db:"created_at"`
}
