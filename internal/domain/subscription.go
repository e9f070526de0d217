package domain

import (
	"net/mail"
	"time"
)

type Tier string

const (
	TierFree           Tier = "free"
	TierMedicalFree    Tier = "medical_free"
	TierDentistFree    Tier = "dentist_free"
	TierNewsletterOnly Tier = "newsletter_only"
	TierPremiumBasic   Tier = "premium_basic"
	TierPremiumPlus    Tier = "premium_plus"
)

var Tiers = []Tier{TierFree, TierMedicalFree, TierDentistFree, TierNewsletterOnly, TierPremiumBasic, TierPremiumPlus}

const (
	CapFreeResources    = "free_resources"
	CapMedicalResources = "medical_resources"
	CapDentistResources = "dentist_resources"
	CapNewsletter       = "newsletter"
	CapPremiumGuides    = "premium_guides"
	CapMockInterviews   = "mock_interviews"
	CapStatementReview  = "personal_statement_review"
	CapPrioritySupport  = "priority_support"
)

var premiumBasicCaps = Flags{CapFreeResources, CapMedicalResources, CapDentistResources, CapNewsletter, CapPremiumGuides}

var tierCapabilities = map[Tier]Flags{
	TierFree:           {CapFreeResources},
	TierMedicalFree:    {CapFreeResources, CapMedicalResources},
	TierDentistFree:    {CapFreeResources, CapDentistResources},
	TierNewsletterOnly: {CapNewsletter},
	TierPremiumBasic:   premiumBasicCaps,
	TierPremiumPlus:    premiumBasicCaps.Clone().Union(Flags{CapMockInterviews, CapStatementReview, CapPrioritySupport}),
}

func (t Tier) Valid() bool {
	_, ok := tierCapabilities[t]
	return ok
}

// Capabilities returns a copy of the capability list granted by the tier.
func (t Tier) Capabilities() Flags {
	return tierCapabilities[t].Clone()
}

type Subscription struct {
	ID              int64
	Email           string
	FirstName       string
	Tier            Tier
	OptInNewsletter bool
	Source          string
	SubscribedAt    time.Time
	UnsubscribedAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s *Subscription) Active() bool {
	return s.UnsubscribedAt == nil
}

func (s *Subscription) Unsubscribe(now time.Time) {
	s.UnsubscribedAt = &now
}

func (s *Subscription) Resubscribe(now time.Time) {
	s.UnsubscribedAt = nil
	s.SubscribedAt = now
}

// Access describes what a subscriber may open.
type Access struct {
	Email        string `json:"email"`
	Tier         Tier   `json:"tier"`
	Active       bool   `json:"active"`
	Capabilities Flags  `json:"capabilities"`
	ResourceType string `json:"resource_type,omitempty"`
	HasAccess    *bool  `json:"has_access,omitempty"`
}

func (s *Subscription) Access(resourceType string) Access {
	a := Access{Email: s.Email, Tier: s.Tier, Active: s.Active(), Capabilities: Flags{}}
	if a.Active {
		a.Capabilities = s.Tier.Capabilities()
	}
	if resourceType != "" {
		has := a.Capabilities.Has(resourceType)
		a.ResourceType = resourceType
		a.HasAccess = &has
	}
	return a
}

func ValidateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func NewSubscription(email string, tier Tier, optIn bool, firstName, source string) (Subscription, error) {
	email = NormalizeEmail(email)
	if !ValidateEmail(email) {
		return Subscription{}, NewValidationError("email", "invalid email '%s'", email)
	}
	if tier == "" {
		tier = TierFree
	}
	if !tier.Valid() {
		return Subscription{}, NewValidationError("subscription_tier", "unknown tier '%s'", tier)
	}
	now := time.Now().UTC()
	return Subscription{
		Email:           email,
		FirstName:       firstName,
		Tier:            tier,
		OptInNewsletter: optIn,
		Source:          source,
		SubscribedAt:    now,
	}, nil
}

type TierStats struct {
	Total           int          `json:"total"`
	Active          int          `json:"active"`
	Unsubscribed    int          `json:"unsubscribed"`
	NewsletterOptIn int          `json:"newsletter_opt_in"`
	ByTier          map[Tier]int `json:"by_tier"`
}

type SubscriptionsRepository interface {
	Create(s Subscription) (Subscription, error)
	Update(s Subscription) error
	Delete(email string) error
	GetByEmail(email string) (Subscription, error)
	List(limit int) ([]Subscription, error)
	Stats() (TierStats, error)
}
