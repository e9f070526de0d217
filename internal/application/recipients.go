package application

import (
	"fmt"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

// Upper bounds of the initial recipient queries.
const (
	SubscriptionPageSize = 1000
	BookingPageSize      = 10000
)

var DefaultOperators = []string{"info@nextgenmedprep.co.uk", "admin@nextgenmedprep.co.uk"}

type RecipientQuery struct {
	Emails      []string
	Tiers       []domain.Tier
	PackageType string
	// Newsletter requires subscribers to have opted in.
	Newsletter bool
}

type RecipientResolver struct {
	subscriptions domain.SubscriptionsRepository
	bookings      domain.BookingsRepository
	operators     []string
}

func NewRecipientResolver(subs domain.SubscriptionsRepository, bookings domain.BookingsRepository, operators []string) *RecipientResolver {
	if len(operators) == 0 {
		operators = DefaultOperators
	}
	return &RecipientResolver{subscriptions: subs, bookings: bookings, operators: operators}
}

// Resolve picks the targeting mode in order: explicit emails, package, then
// subscriber filters. The result never contains duplicates.
func (r *RecipientResolver) Resolve(q RecipientQuery) ([]string, error) {
	var (
		recipients []string
		err        error
	)
	switch {
	case len(q.Emails) > 0:
		recipients, err = explicitRecipients(q.Emails)
	case q.PackageType != "":
		recipients, err = r.packageRecipients(q.PackageType)
	case q.Newsletter || len(q.Tiers) > 0:
		recipients, err = r.subscriberRecipients(q.Tiers, q.Newsletter)
	default:
		return nil, domain.NewValidationError("", "No recipients specified")
	}
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, domain.NewValidationError("", "No recipients found")
	}
	return recipients, nil
}

func explicitRecipients(emails []string) ([]string, error) {
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		addr := domain.NormalizeEmail(e)
		if addr == "" {
			continue
		}
		if !domain.ValidateEmail(addr) {
			return nil, domain.NewValidationError("emails", "invalid email '%s'", e)
		}
		normalized = append(normalized, addr)
	}
	return domain.Unique(normalized), nil
}

func (r *RecipientResolver) subscriberRecipients(tiers []domain.Tier, newsletter bool) ([]string, error) {
	for _, t := range tiers {
		if !t.Valid() {
			return nil, domain.NewValidationError("tiers", "unknown tier '%s'", t)
		}
	}
	subs, err := r.subscriptions.List(SubscriptionPageSize)
	if err != nil {
		return nil, fmt.Errorf("fetching subscriptions: %w", err)
	}
	return FilterSubscribers(subs, tiers, newsletter), nil
}

// FilterSubscribers drops unsubscribed records, records outside of tiers when
// tiers is not empty and, for newsletters, records without opt-in.
func FilterSubscribers(subs []domain.Subscription, tiers []domain.Tier, newsletter bool) []string {
	allowed := make(map[domain.Tier]bool, len(tiers))
	for _, t := range tiers {
		allowed[t] = true
	}
	emails := make([]string, 0, len(subs))
	for _, s := range subs {
		if !s.Active() {
			continue
		}
		if newsletter && !s.OptInNewsletter {
			continue
		}
		if len(allowed) > 0 && !allowed[s.Tier] {
			continue
		}
		emails = append(emails, domain.NormalizeEmail(s.Email))
	}
	return domain.Unique(emails)
}

func (r *RecipientResolver) packageRecipients(packageType string) ([]string, error) {
	bookings, err := r.bookings.ListByPackage(packageType, BookingPageSize)
	if err != nil {
		return nil, fmt.Errorf("fetching bookings: %w", err)
	}
	if len(bookings) == 0 {
		return nil, domain.ErrNoBookings
	}
	emails := make([]string, 0, len(bookings)+len(r.operators))
	for _, b := range bookings {
		if addr := domain.NormalizeEmail(b.Email); addr != "" {
			emails = append(emails, addr)
		}
	}
	// operators receive a copy of every package email
	emails = append(domain.Unique(emails), r.operators...)
	return domain.Unique(emails), nil
}
