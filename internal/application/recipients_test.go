package application

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/mock"
	"github.com/stretchr/testify/assert"
)

func subscriber(email string, tier domain.Tier, optIn, unsubscribed bool) domain.Subscription {
	s := domain.Subscription{Email: email, Tier: tier, OptInNewsletter: optIn, SubscribedAt: time.Now()}
	if unsubscribed {
		s.Unsubscribe(time.Now())
	}
	return s
}

func TestNewsletterExcludesUnsubscribed(t *testing.T) {
	subs := mock.NewSubscriptionsRepository(
		subscriber("a@x.com", domain.TierFree, true, false),
		subscriber("b@x.com", domain.TierPremiumBasic, true, false),
		subscriber("c@x.com", domain.TierFree, false, true),
	)
	r := NewRecipientResolver(subs, &mock.BookingsRepository{}, nil)

	recipients, err := r.Resolve(RecipientQuery{Newsletter: true})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, recipients)
}

func TestFilterSubscribers(t *testing.T) {
	subs := []domain.Subscription{
		subscriber("a@x.com", domain.TierFree, true, false),
		subscriber("b@x.com", domain.TierPremiumPlus, false, false),
		subscriber("c@x.com", domain.TierPremiumPlus, true, true),
		subscriber("A@x.com", domain.TierFree, true, false),
	}
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, FilterSubscribers(subs, nil, false))
	assert.Equal(t, []string{"a@x.com"}, FilterSubscribers(subs, nil, true))
	assert.Equal(t, []string{"b@x.com"}, FilterSubscribers(subs, []domain.Tier{domain.TierPremiumPlus}, false))
	assert.Empty(t, FilterSubscribers(subs, []domain.Tier{domain.TierPremiumPlus}, true))
}

func TestTierFilterUsesPageSize(t *testing.T) {
	var all []domain.Subscription
	for i := 0; i < SubscriptionPageSize+5; i++ {
		all = append(all, subscriber(fmt.Sprintf("user%d@x.com", i), domain.TierFree, true, false))
	}
	subs := mock.NewSubscriptionsRepository(all...)
	r := NewRecipientResolver(subs, &mock.BookingsRepository{}, nil)

	recipients, err := r.Resolve(RecipientQuery{Tiers: []domain.Tier{domain.TierFree}})
	assert.NoError(t, err)
	assert.Len(t, recipients, SubscriptionPageSize)
}

func TestExplicitEmails(t *testing.T) {
	r := NewRecipientResolver(mock.NewSubscriptionsRepository(), &mock.BookingsRepository{}, nil)

	recipients, err := r.Resolve(RecipientQuery{
		Emails: []string{" A@x.com", "a@x.com", "b@x.com", ""},
		Tiers:  []domain.Tier{domain.TierFree},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, recipients)

	_, err = r.Resolve(RecipientQuery{Emails: []string{"not-an-email"}})
	assert.True(t, domain.IsValidationError(err))
}

func TestPackageRecipientsIncludeOperators(t *testing.T) {
	bookings := &mock.BookingsRepository{Bookings: []domain.Booking{
		{Email: "s1@x.com", PackageType: "mock-interview"},
		{Email: "S1@x.com", PackageType: "mock-interview"},
		{Email: "s2@x.com", PackageType: "mock-interview"},
		{Email: "other@x.com", PackageType: "ucat"},
	}}
	r := NewRecipientResolver(mock.NewSubscriptionsRepository(), bookings, nil)

	recipients, err := r.Resolve(RecipientQuery{PackageType: "mock-interview"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"s1@x.com", "s2@x.com", "info@nextgenmedprep.co.uk", "admin@nextgenmedprep.co.uk"}, recipients)
}

func TestPackageWithBlankEmailsStillIncludesOperators(t *testing.T) {
	bookings := &mock.BookingsRepository{Bookings: []domain.Booking{{Email: "", PackageType: "p"}}}
	r := NewRecipientResolver(mock.NewSubscriptionsRepository(), bookings, []string{"ops@x.com"})

	recipients, err := r.Resolve(RecipientQuery{PackageType: "p"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"ops@x.com"}, recipients)
}

func TestPackageWithoutBookings(t *testing.T) {
	r := NewRecipientResolver(mock.NewSubscriptionsRepository(), &mock.BookingsRepository{}, nil)

	_, err := r.Resolve(RecipientQuery{PackageType: "unknown"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveErrors(t *testing.T) {
	subs := mock.NewSubscriptionsRepository(subscriber("a@x.com", domain.TierFree, false, false))
	r := NewRecipientResolver(subs, &mock.BookingsRepository{}, nil)

	_, err := r.Resolve(RecipientQuery{})
	assert.True(t, domain.IsValidationError(err), "no targeting mode")

	_, err = r.Resolve(RecipientQuery{Newsletter: true})
	assert.True(t, domain.IsValidationError(err), "nobody opted in")

	_, err = r.Resolve(RecipientQuery{Tiers: []domain.Tier{"gold"}})
	assert.True(t, domain.IsValidationError(err), "unknown tier")

	subs.Err = errors.New("db down")
	_, err = r.Resolve(RecipientQuery{Newsletter: true})
	assert.Error(t, err)
	assert.False(t, domain.IsValidationError(err))
}
