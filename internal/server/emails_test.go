package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSubscribers(t *testing.T, f *fixture, n int, tier domain.Tier, optIn bool) {
	t.Helper()
	for i := 0; i < n; i++ {
		sub, err := domain.NewSubscription(fmt.Sprintf("%s%d@x.com", tier, i), tier, optIn, "", "test")
		require.NoError(t, err)
		_, err = f.subs.Create(sub)
		require.NoError(t, err)
	}
}

func TestSendNewsletterRequiresAdminKey(t *testing.T) {
	f := newFixture(t)
	body := `{"subject":"Hi","content":"News"}`

	res := f.json(t, http.MethodPost, "/api/email/newsletter", body)
	assert.False(t, res.Success)
	assert.NotEqual(t, http.StatusOK, res.Code)

	res = f.json(t, http.MethodPost, "/api/email/newsletter", body, AdminKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.False(t, res.Success)
	assert.Empty(t, f.client.Batches)
}

func TestSendNewsletterPartialFailure(t *testing.T) {
	f := newFixture(t)
	seedSubscribers(t, f, 120, domain.TierFree, true)
	seedSubscribers(t, f, 5, domain.TierPremiumPlus, false)
	f.client.FailBatch = func(index int, recipients []string) error {
		if index == 1 {
			return errors.New("rate limited")
		}
		return nil
	}

	res := f.json(t, http.MethodPost, "/api/email/newsletter", `{"subject":"Hi","content":"News"}`, AdminKeyHeader, testAdminKey)
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	assert.True(t, res.Success)

	var result SendResult
	res.decode(t, &result)
	assert.Equal(t, SendResult{Sent: 70, Failed: 50, Total: 120}, result)
	assert.Len(t, f.client.Batches, 3)
	require.Len(t, f.logs.Entries, 1)
	assert.Equal(t, 50, f.logs.Entries[0].Failed)
}

func TestSendCustomEmailExplicitRecipients(t *testing.T) {
	f := newFixture(t)
	body := `{"emails":["A@x.com"," b@x.com","a@x.com"],"subject":"Hello","content":"Body"}`

	res := f.json(t, http.MethodPost, "/api/email/custom-email", body, AdminKeyHeader, testAdminKey)
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	var result SendResult
	res.decode(t, &result)
	assert.Equal(t, SendResult{Sent: 2, Failed: 0, Total: 2}, result)
	assert.Equal(t, [][]string{{"a@x.com", "b@x.com"}}, f.client.Batches)
}

func TestSendCustomEmailValidation(t *testing.T) {
	f := newFixture(t)

	res := f.json(t, http.MethodPost, "/api/email/custom-email", `{"emails":["a@x.com"],"content":"Body"}`, AdminKeyHeader, testAdminKey)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Error, "subject")

	res = f.json(t, http.MethodPost, "/api/email/custom-email", `{"emails":["not-an-email"],"subject":"S","content":"Body"}`, AdminKeyHeader, testAdminKey)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = f.json(t, http.MethodPost, "/api/email/custom-email", `{"subject":"S","content":"Body"}`, AdminKeyHeader, testAdminKey)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, f.client.Batches)
}

func TestSendPackageEmail(t *testing.T) {
	f := newFixture(t)
	f.bookings.Bookings = []domain.Booking{
		{ID: 1, Email: "s1@x.com", PackageType: "interview_pro"},
		{ID: 2, Email: "s2@x.com", PackageType: "interview_pro"},
		{ID: 3, Email: "s1@x.com", PackageType: "interview_pro"},
		{ID: 4, Email: "other@x.com", PackageType: "basic"},
	}

	res := f.json(t, http.MethodPost, "/api/email/email-by-package", `{"package_type":"interview_pro","subject":"S","content":"C"}`, AdminKeyHeader, testAdminKey)
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	var result SendResult
	res.decode(t, &result)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, []string{"s1@x.com", "s2@x.com", "info@nextgenmedprep.co.uk", "admin@nextgenmedprep.co.uk"}, f.client.Batches[0])

	res = f.json(t, http.MethodPost, "/api/email/email-by-package", `{"package_type":"missing","subject":"S","content":"C"}`, AdminKeyHeader, testAdminKey)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.False(t, res.Success)
}

func TestEmailStats(t *testing.T) {
	f := newFixture(t)
	seedSubscribers(t, f, 3, domain.TierFree, true)
	seedSubscribers(t, f, 2, domain.TierPremiumBasic, false)

	res := f.json(t, http.MethodGet, "/api/email/email-stats", "")
	require.Equal(t, http.StatusOK, res.Code)
	var stats domain.TierStats
	res.decode(t, &stats)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 5, stats.Active)
	assert.Equal(t, 3, stats.NewsletterOptIn)
	assert.Equal(t, 2, stats.ByTier[domain.TierPremiumBasic])
}
