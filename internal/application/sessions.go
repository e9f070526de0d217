package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/queue"
	"go.uber.org/zap"
)

type GenerationQueue interface {
	Push(ctx context.Context, job queue.GenerationJob) error
}

type GenerationRequest struct {
	BookingID    string
	StudentEmail string
	Universities []string
	Metadata     json.RawMessage
}

type SessionsService struct {
	log   *zap.SugaredLogger
	repo  domain.SessionsRepository
	queue GenerationQueue
	now   func() time.Time
}

func NewSessionsService(log *zap.SugaredLogger, repo domain.SessionsRepository, queue GenerationQueue) *SessionsService {
	return &SessionsService{log: log, repo: repo, queue: queue, now: time.Now}
}

func (r GenerationRequest) normalize() (GenerationRequest, error) {
	r.BookingID = strings.TrimSpace(r.BookingID)
	if r.BookingID == "" {
		return r, domain.NewValidationError("bookingId", "required")
	}
	r.StudentEmail = domain.NormalizeEmail(r.StudentEmail)
	if !domain.ValidateEmail(r.StudentEmail) {
		return r, domain.NewValidationError("studentEmail", "invalid email '%s'", r.StudentEmail)
	}
	universities := make([]string, 0, len(r.Universities))
	for _, u := range r.Universities {
		if u = strings.TrimSpace(u); u != "" {
			universities = append(universities, u)
		}
	}
	if len(universities) == 0 {
		return r, domain.NewValidationError("universities", "at least one university required")
	}
	r.Universities = domain.Unique(universities)
	if len(r.Metadata) > 0 && !json.Valid(r.Metadata) {
		return r, domain.NewValidationError("metadata", "invalid json")
	}
	return r, nil
}

// Generate records a queued session and hands it to the generation worker.
// A queue failure leaves the session queued.
func (s *SessionsService) Generate(ctx context.Context, req GenerationRequest) (domain.InterviewSession, error) {
	req, err := req.normalize()
	if err != nil {
		return domain.InterviewSession{}, err
	}
	now := s.now().UTC()
	session := domain.InterviewSession{
		ID:           uuid.Must(uuid.NewV4()).String(),
		BookingID:    req.BookingID,
		StudentEmail: req.StudentEmail,
		Universities: req.Universities,
		Metadata:     req.Metadata,
		Status:       domain.SessionQueued,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(session); err != nil {
		return domain.InterviewSession{}, err
	}
	job := queue.GenerationJob{
		SessionID:    session.ID,
		BookingID:    session.BookingID,
		StudentEmail: session.StudentEmail,
		Universities: session.Universities,
		Metadata:     session.Metadata,
		QueuedAt:     now,
	}
	if err := s.queue.Push(ctx, job); err != nil {
		s.log.Errorw("queueing generation job", "session", session.ID, zap.Error(err))
	}
	return s.repo.GetByID(session.ID)
}

func (s *SessionsService) Get(id string) (domain.InterviewSession, error) {
	return s.repo.GetByID(id)
}
