// Package dispatch sends a message to a recipient list in fixed-size batches
// and accounts for failures per batch.
package dispatch

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const BatchSize = 50

var (
	recipientsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "medprep_email_recipients_sent_total",
		Help: "Recipients in batches accepted by the email transport.",
	}, []string{"kind"})
	recipientsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "medprep_email_recipients_failed_total",
		Help: "Recipients in batches rejected by the email transport.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(recipientsSent, recipientsFailed)
}

// Partition splits recipients into consecutive batches of at most size
// addresses. The last batch may be smaller.
func Partition(recipients []string, size int) [][]string {
	if size <= 0 {
		size = BatchSize
	}
	batches := make([][]string, 0, (len(recipients)+size-1)/size)
	for start := 0; start < len(recipients); start += size {
		end := start + size
		if end > len(recipients) {
			end = len(recipients)
		}
		batches = append(batches, recipients[start:end:end])
	}
	return batches
}

type SendFunc func(ctx context.Context, batch []string) error

type BatchError struct {
	Index      int      `json:"index"`
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
}

// Summary of one dispatch. Sent+Failed always equals Total.
type Summary struct {
	Sent     int           `json:"sent"`
	Failed   int           `json:"failed"`
	Total    int           `json:"total"`
	Errors   []BatchError  `json:"-"`
	Duration time.Duration `json:"-"`
}

type Dispatcher struct {
	log       *zap.SugaredLogger
	batchSize int
}

func NewDispatcher(log *zap.SugaredLogger, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = BatchSize
	}
	return &Dispatcher{log: log, batchSize: batchSize}
}

func (d *Dispatcher) BatchSize() int {
	return d.batchSize
}

// Run sends batches one after another. A failed batch is logged and counted
// as failed in full; it is never retried and never stops the remaining batches.
func (d *Dispatcher) Run(ctx context.Context, kind string, recipients []string, send SendFunc) Summary {
	start := time.Now()
	summary := Summary{Total: len(recipients)}
	for i, batch := range Partition(recipients, d.batchSize) {
		if err := send(ctx, batch); err != nil {
			d.log.Errorw("sending email batch", "kind", kind, "batch", i, "size", len(batch), zap.Error(err))
			summary.Failed += len(batch)
			summary.Errors = append(summary.Errors, BatchError{Index: i, Recipients: batch, Message: err.Error()})
			recipientsFailed.WithLabelValues(kind).Add(float64(len(batch)))
			continue
		}
		summary.Sent += len(batch)
		recipientsSent.WithLabelValues(kind).Add(float64(len(batch)))
	}
	summary.Duration = time.Since(start)
	d.log.Infow("email dispatch finished", "kind", kind, "sent", summary.Sent, "failed", summary.Failed, "total", summary.Total, "duration", summary.Duration)
	return summary
}
