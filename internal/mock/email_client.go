package mock

import (
	"context"
	"sync"

	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/email"
)

type SentEmail struct {
	To      string
	Message email.Message
}

// EmailService records every message. FailBatch, when set, decides the
// outcome of each batch by its call index.
type EmailService struct {
	mu        sync.Mutex
	Sent      []SentEmail
	Batches   [][]string
	Messages  []email.Message
	FailBatch func(index int, recipients []string) error
	FailSend  error
}

func NewEmailService() *EmailService {
	return &EmailService{}
}

func (s *EmailService) Send(ctx context.Context, msg email.Message, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSend != nil {
		return s.FailSend
	}
	s.Sent = append(s.Sent, SentEmail{To: to, Message: msg})
	return nil
}

func (s *EmailService) SendBatch(ctx context.Context, msg email.Message, recipients []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := len(s.Batches)
	batch := append([]string(nil), recipients...)
	s.Batches = append(s.Batches, batch)
	s.Messages = append(s.Messages, msg)
	if s.FailBatch != nil {
		return s.FailBatch(index, batch)
	}
	return nil
}

func (s *EmailService) SentTo() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]string, len(s.Sent))
	for i, e := range s.Sent {
		res[i] = e.To
	}
	return res
}
