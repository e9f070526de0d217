package postgres

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type SubscriptionsRepository struct {
	db *sqlx.DB
}

func NewSubscriptionsRepository(db *sqlx.DB) *SubscriptionsRepository {
	return &SubscriptionsRepository{db}
}

const subscriptionColumns = `id, email, first_name, subscription_tier, opt_in_newsletter, source, subscribed_at, unsubscribed_at, created_at, updated_at`

func (r *SubscriptionsRepository) Create(s domain.Subscription) (domain.Subscription, error) {
	row := toSubscriptionRow(s)
	err := r.db.QueryRow(
		`INSERT INTO subscriptions (email, first_name, subscription_tier, opt_in_newsletter, source, subscribed_at, unsubscribed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		row.Email, row.FirstName, row.Tier, row.OptInNewsletter, row.Source, row.SubscribedAt, row.UnsubscribedAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Subscription{}, translate(err, nil, domain.ErrSubscriptionExists)
	}
	return s, nil
}

func (r *SubscriptionsRepository) Update(s domain.Subscription) error {
	row := toSubscriptionRow(s)
	row.UpdatedAt = time.Now().UTC()
	const q = `
	UPDATE
			subscriptions
	SET
			"first_name" = :first_name,
			"subscription_tier" = :subscription_tier,
			"opt_in_newsletter" = :opt_in_newsletter,
			"source" = :source,
			"subscribed_at" = :subscribed_at,
			"unsubscribed_at" = :unsubscribed_at,
			"updated_at" = :updated_at
	WHERE
			email = :email
	`
	res, err := r.db.NamedExec(q, row)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionsRepository) Delete(email string) error {
	res, err := r.db.Exec("DELETE FROM subscriptions WHERE email=$1", email)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionsRepository) GetByEmail(email string) (domain.Subscription, error) {
	var row Subscription
	err := r.db.Get(&row, "SELECT "+subscriptionColumns+" FROM subscriptions WHERE email=$1", email)
	if err != nil {
		return domain.Subscription{}, translate(err, domain.ErrSubscriptionNotFound, nil)
	}
	return toSubscription(row), nil
}

func (r *SubscriptionsRepository) List(limit int) ([]domain.Subscription, error) {
	var rows []Subscription
	err := r.db.Select(&rows, "SELECT "+subscriptionColumns+" FROM subscriptions ORDER BY id LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	subs := make([]domain.Subscription, len(rows))
	for i, row := range rows {
		subs[i] = toSubscription(row)
	}
	return subs, nil
}

func (r *SubscriptionsRepository) Stats() (domain.TierStats, error) {
	var rows []struct {
		Tier   string `db:"subscription_tier"`
		Total  int    `db:"total"`
		Active int    `db:"active"`
		OptIn  int    `db:"opt_in"`
	}
	err := r.db.Select(&rows, `
		SELECT subscription_tier,
			count(*) AS total,
			count(*) FILTER (WHERE unsubscribed_at IS NULL) AS active,
			count(*) FILTER (WHERE unsubscribed_at IS NULL AND opt_in_newsletter) AS opt_in
		FROM subscriptions
		GROUP BY subscription_tier`)
	if err != nil {
		return domain.TierStats{}, fmt.Errorf("subscription stats: %w", err)
	}
	stats := domain.TierStats{ByTier: make(map[domain.Tier]int, len(domain.Tiers))}
	for _, t := range domain.Tiers {
		stats.ByTier[t] = 0
	}
	for _, row := range rows {
		stats.Total += row.Total
		stats.Active += row.Active
		stats.NewsletterOptIn += row.OptIn
		stats.ByTier[domain.Tier(row.Tier)] += row.Active
	}
	stats.Unsubscribed = stats.Total - stats.Active
	return stats, nil
}

func toSubscription(row Subscription) domain.Subscription {
	return domain.Subscription{
		ID:              row.ID,
		Email:           row.Email,
		FirstName:       row.FirstName,
		Tier:            domain.Tier(row.Tier),
		OptInNewsletter: row.OptInNewsletter,
		Source:          row.Source,
		SubscribedAt:    row.SubscribedAt,
		UnsubscribedAt:  row.UnsubscribedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func toSubscriptionRow(s domain.Subscription) Subscription {
	return Subscription{
		ID:              s.ID,
		Email:           s.Email,
		FirstName:       s.FirstName,
		Tier:            string(s.Tier),
		OptInNewsletter: s.OptInNewsletter,
		Source:          s.Source,
		SubscribedAt:    s.SubscribedAt,
		UnsubscribedAt:  s.UnsubscribedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
