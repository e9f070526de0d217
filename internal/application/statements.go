package application

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/payments"
	"go.uber.org/zap"
)

const MaxStatementSize = 10 << 20

var StatementContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type Checkout interface {
	CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error)
}

type FileUpload struct {
	Name string
	Size int64
	Body io.Reader
}

type StatementSubmission struct {
	Email       string
	FirstName   string
	LastName    string
	ServiceType domain.ServiceType
	University  string
	Notes       string
	File        FileUpload
}

type StatementReview struct {
	Status        *domain.StatementStatus
	Reviewer      *string
	ReviewerNotes *string
}

type SubmittedStatement struct {
	Statement   domain.PersonalStatement `json:"statement"`
	CheckoutURL string                   `json:"checkout_url,omitempty"`
}

type StatementsService struct {
	log           *zap.SugaredLogger
	repo          domain.StatementsRepository
	storage       domain.Storage
	checkout      Checkout
	tasks         TaskQueue
	notifications Notifications
	urlTTL        time.Duration
}

// NewStatementsService creates the service. checkout may be nil when
// payments are not configured.
func NewStatementsService(
	log *zap.SugaredLogger,
	repo domain.StatementsRepository,
	storage domain.Storage,
	checkout Checkout,
	tasks TaskQueue,
	notifications Notifications,
	urlTTL time.Duration,
) *StatementsService {
	if urlTTL <= 0 {
		urlTTL = DefaultSignedURLTTL
	}
	return &StatementsService{
		log:           log,
		repo:          repo,
		storage:       storage,
		checkout:      checkout,
		tasks:         tasks,
		notifications: notifications,
		urlTTL:        urlTTL,
	}
}

func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r < 32:
			return -1
		case r == ' ':
			return '_'
		}
		return r
	}, name)
	if name == "." || name == "" {
		return "statement"
	}
	return name
}

func checkFile(f FileUpload) (string, error) {
	if f.Body == nil || f.Name == "" {
		return "", domain.NewValidationError("file", "required")
	}
	if f.Size > MaxStatementSize {
		return "", domain.NewValidationError("file", "file exceeds %d MB", MaxStatementSize>>20)
	}
	ext := strings.ToLower(path.Ext(f.Name))
	contentType, ok := StatementContentTypes[ext]
	if !ok {
		return "", domain.NewValidationError("file", "unsupported file type '%s'", ext)
	}
	return contentType, nil
}

func (s *StatementsService) store(ctx context.Context, dir string, f FileUpload) (string, string, error) {
	contentType, err := checkFile(f)
	if err != nil {
		return "", "", err
	}
	name := cleanFileName(f.Name)
	filePath := path.Join(dir, uuid.Must(uuid.NewV4()).String(), name)
	if err := s.storage.Put(ctx, filePath, f.Body, f.Size, contentType); err != nil {
		return "", "", fmt.Errorf("uploading statement: %w", err)
	}
	return filePath, name, nil
}

// discard removes a statement that never reached checkout, with its file.
func (s *StatementsService) discard(ctx context.Context, ps domain.PersonalStatement) {
	if err := s.repo.Delete(ps.ID); err != nil {
		s.log.Errorw("removing statement without checkout", "id", ps.ID, zap.Error(err))
	}
	if err := s.storage.Delete(ctx, ps.FilePath); err != nil {
		s.log.Errorw("removing statement file", "path", ps.FilePath, zap.Error(err))
	}
}

func (s *StatementsService) Submit(ctx context.Context, in StatementSubmission) (SubmittedStatement, error) {
	email := domain.NormalizeEmail(in.Email)
	if !domain.ValidateEmail(email) {
		return SubmittedStatement{}, domain.NewValidationError("email", "invalid email '%s'", in.Email)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return SubmittedStatement{}, domain.NewValidationError("name", "first and last name are required")
	}
	if in.ServiceType == "" {
		in.ServiceType = domain.ServiceStandard
	}
	if !in.ServiceType.Valid() {
		return SubmittedStatement{}, domain.NewValidationError("service_type", "unknown service type '%s'", in.ServiceType)
	}
	filePath, fileName, err := s.store(ctx, "statements", in.File)
	if err != nil {
		return SubmittedStatement{}, err
	}

	ps := domain.PersonalStatement{
		Email:       email,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		ServiceType: in.ServiceType,
		University:  strings.TrimSpace(in.University),
		Notes:       in.Notes,
		FilePath:    filePath,
		FileName:    fileName,
		Status:      domain.StatementSubmitted,
		Amount:      domain.ServicePrices[in.ServiceType],
	}
	if s.checkout != nil {
		ps.Status = domain.StatementPendingPayment
	}
	ps, err = s.repo.Create(ps)
	if err != nil {
		return SubmittedStatement{}, err
	}

	res := SubmittedStatement{Statement: ps}
	if s.checkout != nil {
		session, err := s.checkout.CreateCheckout(ctx, payments.CheckoutRequest{
			StatementID: ps.ID,
			Email:       ps.Email,
			Description: fmt.Sprintf("Personal statement review (%s)", ps.ServiceType),
			Amount:      ps.Amount,
		})
		if err != nil {
			s.discard(ctx, ps)
			return SubmittedStatement{}, fmt.Errorf("creating checkout session: %w", err)
		}
		ps.StripeSessionID = session.ID
		if err := s.repo.Update(ps); err != nil {
			return SubmittedStatement{}, err
		}
		res.Statement = ps
		res.CheckoutURL = session.URL
	}
	if s.notifications != nil {
		created := ps
		s.tasks.Enqueue("statement_received", func(ctx context.Context) error {
			return s.notifications.StatementReceived(ctx, created)
		})
	}
	return res, nil
}

func (s *StatementsService) List(filter domain.StatementFilter) ([]domain.PersonalStatement, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status '%s'", filter.Status)
	}
	if filter.Email != "" {
		filter.Email = domain.NormalizeEmail(filter.Email)
	}
	return s.repo.List(filter)
}

func (s *StatementsService) Get(id int64) (domain.PersonalStatement, error) {
	return s.repo.GetByID(id)
}

func (s *StatementsService) Review(id int64, r StatementReview) (domain.PersonalStatement, error) {
	ps, err := s.repo.GetByID(id)
	if err != nil {
		return domain.PersonalStatement{}, err
	}
	if r.Status != nil {
		if !r.Status.Valid() {
			return domain.PersonalStatement{}, domain.NewValidationError("status", "unknown status '%s'", *r.Status)
		}
		ps.Status = *r.Status
	}
	if r.Reviewer != nil {
		ps.Reviewer = strings.TrimSpace(*r.Reviewer)
	}
	if r.ReviewerNotes != nil {
		ps.ReviewerNotes = *r.ReviewerNotes
	}
	if err := s.repo.Update(ps); err != nil {
		return domain.PersonalStatement{}, err
	}
	return ps, nil
}

// DownloadURL signs the submitted file, or the feedback file when feedback
// is set.
func (s *StatementsService) DownloadURL(ctx context.Context, id int64, feedback bool) (string, error) {
	ps, err := s.repo.GetByID(id)
	if err != nil {
		return "", err
	}
	filePath := ps.FilePath
	if feedback {
		filePath = ps.FeedbackPath
	}
	if filePath == "" {
		return "", fmt.Errorf("File %w", domain.ErrNotFound)
	}
	return s.storage.SignedURL(ctx, filePath, s.urlTTL)
}

func (s *StatementsService) UploadFeedback(ctx context.Context, id int64, f FileUpload) (domain.PersonalStatement, error) {
	ps, err := s.repo.GetByID(id)
	if err != nil {
		return domain.PersonalStatement{}, err
	}
	filePath, _, err := s.store(ctx, "feedback", f)
	if err != nil {
		return domain.PersonalStatement{}, err
	}
	ps.FeedbackPath = filePath
	ps.Status = domain.StatementCompleted
	if err := s.repo.Update(ps); err != nil {
		return domain.PersonalStatement{}, err
	}
	if s.notifications != nil {
		completed := ps
		s.tasks.Enqueue("statement_feedback", func(ctx context.Context) error {
			link, err := s.storage.SignedURL(ctx, completed.FeedbackPath, s.urlTTL)
			if err != nil {
				return err
			}
			return s.notifications.FeedbackReady(ctx, completed, link)
		})
	}
	return ps, nil
}

// HandlePayment applies a verified payment event. Events for other types or
// without a statement reference are ignored.
func (s *StatementsService) HandlePayment(ev payments.Event) error {
	if ev.StatementID == 0 || ev.Type != "checkout.session.completed" && ev.Type != "checkout.session.async_payment_succeeded" {
		return nil
	}
	if !ev.Paid {
		s.log.Infow("checkout completed without payment", "statement", ev.StatementID, "session", ev.SessionID)
		return nil
	}
	ps, err := s.repo.GetByID(ev.StatementID)
	if err != nil {
		return err
	}
	if ps.Status != domain.StatementPendingPayment {
		return nil
	}
	ps.Status = domain.StatementPaid
	if ps.StripeSessionID == "" {
		ps.StripeSessionID = ev.SessionID
	}
	return s.repo.Update(ps)
}
