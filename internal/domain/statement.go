package domain

import "time"

type StatementStatus string

const (
	StatementPendingPayment StatementStatus = "pending_payment"
	StatementSubmitted      StatementStatus = "submitted"
	StatementPaid           StatementStatus = "paid"
	StatementInReview       StatementStatus = "in_review"
	StatementCompleted      StatementStatus = "completed"
	StatementCancelled      StatementStatus = "cancelled"
)

func (s StatementStatus) Valid() bool {
	switch s {
	case StatementPendingPayment, StatementSubmitted, StatementPaid, StatementInReview, StatementCompleted, StatementCancelled:
		return true
	}
	return false
}

type ServiceType string

const (
	ServiceStandard ServiceType = "standard"
	ServicePremium  ServiceType = "premium"
	ServiceExpress  ServiceType = "express"
)

// Prices in minor currency units.
var ServicePrices = map[ServiceType]int64{
	ServiceStandard: 4999,
	ServicePremium:  7999,
	ServiceExpress:  9999,
}

func (t ServiceType) Valid() bool {
	_, ok := ServicePrices[t]
	return ok
}

type PersonalStatement struct {
	ID              int64
	Email           string
	FirstName       string
	LastName        string
	ServiceType     ServiceType
	University      string
	Notes           string
	FilePath        string
	FileName        string
	FeedbackPath    string
	Status          StatementStatus
	Reviewer        string
	ReviewerNotes   string
	StripeSessionID string
	Amount          int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type StatementFilter struct {
	Status StatementStatus
	Email  string
}

type StatementsRepository interface {
	Create(ps PersonalStatement) (PersonalStatement, error)
	Update(ps PersonalStatement) error
	GetByID(id int64) (PersonalStatement, error)
	List(filter StatementFilter) ([]PersonalStatement, error)
	Delete(id int64) error
}
