package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	ErrNotConfigured    = errors.New("payments are not configured")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

const StatementMetadataKey = "statement_id"

type Config struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
}

type CheckoutRequest struct {
	StatementID int64
	Email       string
	Description string
	Amount      int64
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Event is the subset of a Stripe webhook event the application reacts to.
type Event struct {
	ID          string
	Type        string
	SessionID   string
	StatementID int64
	Paid        bool
}

type StripePayments struct {
	client *stripe.Client
	cfg    Config
}

func NewStripePayments(cfg Config) *StripePayments {
	if cfg.Currency == "" {
		cfg.Currency = "gbp"
	}
	return &StripePayments{
		client: stripe.NewClient(cfg.SecretKey, nil),
		cfg:    cfg,
	}
}

func (p *StripePayments) CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	statementID := strconv.FormatInt(req.StatementID, 10)
	params := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:     stripe.String(req.Email),
		SuccessURL:        stripe.String(p.cfg.SuccessURL),
		CancelURL:         stripe.String(p.cfg.CancelURL),
		ClientReferenceID: stripe.String(statementID),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(p.cfg.Currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
			},
		},
		Metadata: map[string]string{StatementMetadataKey: statementID},
	}
	session, err := p.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("creating checkout session: %w", err)
	}
	return CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (p *StripePayments) ParseWebhook(payload []byte, signature string) (Event, error) {
	return ParseWebhook(payload, signature, p.cfg.WebhookSecret)
}

// ParseWebhook verifies the Stripe-Signature header and decodes checkout
// session events.
func ParseWebhook(payload []byte, signature, secret string) (Event, error) {
	if secret == "" {
		return Event{}, ErrNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	ev := Event{ID: event.ID, Type: string(event.Type)}
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded,
		stripe.EventTypeCheckoutSessionExpired:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return ev, fmt.Errorf("decoding %s: %w", event.Type, err)
		}
		ev.SessionID = session.ID
		ev.Paid = session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
		if v, ok := session.Metadata[StatementMetadataKey]; ok {
			ev.StatementID, _ = strconv.ParseInt(v, 10, 64)
		}
	}
	return ev, nil
}
