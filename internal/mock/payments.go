package mock

import (
	"context"
	"fmt"

	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/payments"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/queue"
)

type Checkout struct {
	Requests []payments.CheckoutRequest
	Err      error
}

func (c *Checkout) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error) {
	if c.Err != nil {
		return payments.CheckoutSession{}, c.Err
	}
	c.Requests = append(c.Requests, req)
	id := fmt.Sprintf("cs_test_%d", req.StatementID)
	return payments.CheckoutSession{ID: id, URL: "https://checkout.test/" + id}, nil
}

type GenerationQueue struct {
	Jobs []queue.GenerationJob
	Err  error
}

func (q *GenerationQueue) Push(ctx context.Context, job queue.GenerationJob) error {
	if q.Err != nil {
		return q.Err
	}
	q.Jobs = append(q.Jobs, job)
	return nil
}
