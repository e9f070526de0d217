package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const GenerationKey = "prometheus:generate"

var jobsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "medprep_generation_jobs_total",
	Help: "Counts mock-interview generation jobs pushed to the queue.",
}, []string{"result"})

func init() {
	prometheus.MustRegister(jobsCounter)
}

// GenerationJob is the payload consumed by the question generation worker.
type GenerationJob struct {
	SessionID    string          `json:"session_id"`
	BookingID    string          `json:"booking_id"`
	StudentEmail string          `json:"student_email"`
	Universities []string        `json:"universities"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	QueuedAt     time.Time       `json:"queued_at"`
}

type RedisGenerationQueue struct {
	log *zap.SugaredLogger
	rdb *redis.Client
	key string
}

func NewRedisGenerationQueue(log *zap.SugaredLogger, rdb *redis.Client) *RedisGenerationQueue {
	return &RedisGenerationQueue{log: log, rdb: rdb, key: GenerationKey}
}

func (q *RedisGenerationQueue) Push(ctx context.Context, job GenerationJob) error {
	if job.QueuedAt.IsZero() {
		job.QueuedAt = time.Now().UTC()
	}
	value, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, q.key, string(value)).Err(); err != nil {
		jobsCounter.WithLabelValues("error").Inc()
		return fmt.Errorf("redis push generation job: %v", err)
	}
	jobsCounter.WithLabelValues("queued").Inc()
	q.log.Debugw("generation job queued", "session", job.SessionID)
	return nil
}

// Pending returns the number of jobs waiting in the queue.
func (q *RedisGenerationQueue) Pending(ctx context.Context) (int64, error) {
	n, err := q.rdb.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis queue length: %v", err)
	}
	return n, nil
}
