package application

import (
	"context"
	"strings"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/dispatch"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/cache"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/email"
	"go.uber.org/zap"
)

const (
	KindNewsletter = "newsletter"
	KindCustom     = "custom"
	KindPackage    = "package"

	statsTTL = time.Minute
)

type Campaign struct {
	Subject string
	Content string
}

func (c Campaign) validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return domain.NewValidationError("subject", "required")
	}
	if strings.TrimSpace(c.Content) == "" {
		return domain.NewValidationError("content", "required")
	}
	return nil
}

type EmailsService struct {
	log            *zap.SugaredLogger
	resolver       *RecipientResolver
	dispatcher     *dispatch.Dispatcher
	client         email.EmailService
	composer       *email.Composer
	logs           domain.EmailLogRepository
	stats          *cache.DataCache[string, domain.TierStats]
	preferencesURL string
	now            func() time.Time
}

func NewEmailsService(
	log *zap.SugaredLogger,
	resolver *RecipientResolver,
	dispatcher *dispatch.Dispatcher,
	client email.EmailService,
	composer *email.Composer,
	subs domain.SubscriptionsRepository,
	logs domain.EmailLogRepository,
	preferencesURL string,
) *EmailsService {
	stats := cache.NewDataCache(func(string) (domain.TierStats, error) {
		return subs.Stats()
	})
	return &EmailsService{
		log:            log,
		resolver:       resolver,
		dispatcher:     dispatcher,
		client:         client,
		composer:       composer,
		logs:           logs,
		stats:          stats,
		preferencesURL: preferencesURL,
		now:            time.Now,
	}
}

// SendNewsletter targets active, opted-in subscribers, optionally limited to
// the given tiers.
func (s *EmailsService) SendNewsletter(ctx context.Context, c Campaign, tiers []domain.Tier) (dispatch.Summary, error) {
	return s.send(ctx, KindNewsletter, c, RecipientQuery{Tiers: tiers, Newsletter: true}, s.preferencesURL)
}

// SendCustom sends to explicit addresses, or to active subscribers of the
// given tiers when no address is listed.
func (s *EmailsService) SendCustom(ctx context.Context, c Campaign, emails []string, tiers []domain.Tier) (dispatch.Summary, error) {
	return s.send(ctx, KindCustom, c, RecipientQuery{Emails: emails, Tiers: tiers}, "")
}

func (s *EmailsService) SendToPackage(ctx context.Context, c Campaign, packageType string) (dispatch.Summary, error) {
	if strings.TrimSpace(packageType) == "" {
		return dispatch.Summary{}, domain.NewValidationError("package_type", "required")
	}
	return s.send(ctx, KindPackage, c, RecipientQuery{PackageType: packageType}, "")
}

func (s *EmailsService) send(ctx context.Context, kind string, c Campaign, q RecipientQuery, unsubscribeLink string) (dispatch.Summary, error) {
	if err := c.validate(); err != nil {
		return dispatch.Summary{}, err
	}
	recipients, err := s.resolver.Resolve(q)
	if err != nil {
		return dispatch.Summary{}, err
	}
	msg, err := s.composer.Bulk(c.Subject, c.Content, unsubscribeLink)
	if err != nil {
		return dispatch.Summary{}, err
	}
	summary := s.dispatcher.Run(ctx, kind, recipients, func(ctx context.Context, batch []string) error {
		return s.client.SendBatch(ctx, msg, batch)
	})
	s.record(kind, c.Subject, summary)
	return summary, nil
}

func (s *EmailsService) record(kind, subject string, summary dispatch.Summary) {
	if s.logs == nil {
		return
	}
	errs := make([]string, len(summary.Errors))
	for i, e := range summary.Errors {
		errs[i] = e.Message
	}
	entry := domain.EmailLog{
		Kind:      kind,
		Subject:   subject,
		Total:     summary.Total,
		Sent:      summary.Sent,
		Failed:    summary.Failed,
		Errors:    errs,
		CreatedAt: s.now().UTC(),
	}
	if err := s.logs.Insert(entry); err != nil {
		s.log.Errorw("writing email log", "kind", kind, zap.Error(err))
	}
}

// Stats returns subscriber counts, reloaded at most once per minute.
func (s *EmailsService) Stats() (domain.TierStats, error) {
	return s.stats.Get("subscriptions", cache.TimeBucket(s.now(), statsTTL))
}
