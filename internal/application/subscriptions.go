package application

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/cache"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("Invalid token")

type SubscriptionInput struct {
	Email           string
	Tier            domain.Tier
	OptInNewsletter bool
	FirstName       string
	Source          string
}

// SubscriptionUpdate holds optional changes; nil fields are left untouched.
type SubscriptionUpdate struct {
	Tier            *domain.Tier
	OptInNewsletter *bool
	FirstName       *string
	Source          *string
}

type SubscriptionsService struct {
	log           *zap.SugaredLogger
	repo          domain.SubscriptionsRepository
	cache         *cache.SubscriptionsCache
	tasks         TaskQueue
	notifications Notifications
	tokens        TokenGenerator
	siteURL       string
	now           func() time.Time
}

func NewSubscriptionsService(
	log *zap.SugaredLogger,
	repo domain.SubscriptionsRepository,
	cache *cache.SubscriptionsCache,
	tasks TaskQueue,
	notifications Notifications,
	tokens TokenGenerator,
	siteURL string,
) *SubscriptionsService {
	return &SubscriptionsService{
		log:           log,
		repo:          repo,
		cache:         cache,
		tasks:         tasks,
		notifications: notifications,
		tokens:        tokens,
		siteURL:       strings.TrimRight(siteURL, "/"),
		now:           time.Now,
	}
}

func unsubscribeClaims(email string) string {
	return "unsubscribe:" + email
}

// UnsubscribeLink builds a signed link for a single recipient.
func (s *SubscriptionsService) UnsubscribeLink(email string) string {
	if s.tokens == nil {
		return ""
	}
	token, err := s.tokens.GenerateToken(unsubscribeClaims(email))
	if err != nil {
		s.log.Errorw("generating unsubscribe token", "email", email, zap.Error(err))
		return ""
	}
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return s.siteURL + "/unsubscribe?" + q.Encode()
}

func (s *SubscriptionsService) Create(ctx context.Context, in SubscriptionInput) (domain.Subscription, error) {
	sub, err := domain.NewSubscription(in.Email, in.Tier, in.OptInNewsletter, strings.TrimSpace(in.FirstName), in.Source)
	if err != nil {
		return domain.Subscription{}, err
	}
	sub, err = s.repo.Create(sub)
	if err != nil {
		return domain.Subscription{}, err
	}
	s.cache.Invalidate(sub.Email)
	if s.notifications != nil {
		created := sub
		link := s.UnsubscribeLink(created.Email)
		s.tasks.Enqueue("subscription_welcome", func(ctx context.Context) error {
			return s.notifications.Welcome(ctx, created, link)
		})
	}
	return sub, nil
}

func (s *SubscriptionsService) Get(email string) (domain.Subscription, error) {
	email = domain.NormalizeEmail(email)
	if sub, ok := s.cache.Get(email); ok {
		return sub, nil
	}
	sub, err := s.repo.GetByEmail(email)
	if err != nil {
		return domain.Subscription{}, err
	}
	s.cache.Set(sub)
	return sub, nil
}

func (s *SubscriptionsService) List(limit int) ([]domain.Subscription, error) {
	if limit <= 0 || limit > SubscriptionPageSize {
		limit = SubscriptionPageSize
	}
	return s.repo.List(limit)
}

// load bypasses the cache for read-modify-write operations.
func (s *SubscriptionsService) load(email string) (domain.Subscription, error) {
	return s.repo.GetByEmail(domain.NormalizeEmail(email))
}

func (s *SubscriptionsService) save(sub domain.Subscription) (domain.Subscription, error) {
	defer s.cache.Invalidate(sub.Email)
	if err := s.repo.Update(sub); err != nil {
		return domain.Subscription{}, err
	}
	return sub, nil
}

func (s *SubscriptionsService) Update(email string, u SubscriptionUpdate) (domain.Subscription, error) {
	sub, err := s.load(email)
	if err != nil {
		return domain.Subscription{}, err
	}
	if u.Tier != nil {
		if !u.Tier.Valid() {
			return domain.Subscription{}, domain.NewValidationError("subscription_tier", "unknown tier '%s'", *u.Tier)
		}
		sub.Tier = *u.Tier
	}
	if u.OptInNewsletter != nil {
		sub.OptInNewsletter = *u.OptInNewsletter
	}
	if u.FirstName != nil {
		sub.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.Source != nil {
		sub.Source = *u.Source
	}
	return s.save(sub)
}

func (s *SubscriptionsService) Delete(email string) error {
	email = domain.NormalizeEmail(email)
	defer s.cache.Invalidate(email)
	return s.repo.Delete(email)
}

// Unsubscribe marks the subscription inactive. A token, when given, must
// have been issued for the same address.
func (s *SubscriptionsService) Unsubscribe(email, token string) (domain.Subscription, error) {
	sub, err := s.load(email)
	if err != nil {
		return domain.Subscription{}, err
	}
	if token != "" {
		if s.tokens == nil || s.tokens.CheckToken(token, unsubscribeClaims(sub.Email)) != nil {
			return domain.Subscription{}, domain.NewValidationError("token", ErrInvalidToken.Error())
		}
	}
	sub.Unsubscribe(s.now().UTC())
	return s.save(sub)
}

func (s *SubscriptionsService) Resubscribe(email string) (domain.Subscription, error) {
	sub, err := s.load(email)
	if err != nil {
		return domain.Subscription{}, err
	}
	sub.Resubscribe(s.now().UTC())
	return s.save(sub)
}

func (s *SubscriptionsService) CheckAccess(email, resourceType string) (domain.Access, error) {
	sub, err := s.Get(email)
	if err != nil {
		return domain.Access{}, err
	}
	return sub.Access(strings.TrimSpace(resourceType)), nil
}
