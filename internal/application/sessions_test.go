package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/nextgenmedprep/medprep-server/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateSession(t *testing.T) {
	q := &mock.GenerationQueue{}
	s := NewSessionsService(zap.NewNop().Sugar(), mock.NewSessionsRepository(), q)

	session, err := s.Generate(context.Background(), GenerationRequest{
		BookingID:    "b-1",
		StudentEmail: "Student@X.com",
		Universities: []string{"Oxford", " Oxford ", "UCL"},
		Metadata:     json.RawMessage(`{"level":"hard"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionQueued, session.Status)
	assert.Equal(t, "student@x.com", session.StudentEmail)
	assert.Equal(t, []string{"Oxford", "UCL"}, session.Universities)
	assert.NotEmpty(t, session.ID)

	require.Len(t, q.Jobs, 1)
	assert.Equal(t, session.ID, q.Jobs[0].SessionID)

	fetched, err := s.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, fetched.ID)
}

func TestGenerateQueueFailureKeepsSession(t *testing.T) {
	q := &mock.GenerationQueue{Err: errors.New("redis down")}
	s := NewSessionsService(zap.NewNop().Sugar(), mock.NewSessionsRepository(), q)

	session, err := s.Generate(context.Background(), GenerationRequest{
		BookingID: "b-1", StudentEmail: "s@x.com", Universities: []string{"KCL"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionQueued, session.Status)
}

func TestGenerateValidation(t *testing.T) {
	s := NewSessionsService(zap.NewNop().Sugar(), mock.NewSessionsRepository(), &mock.GenerationQueue{})

	cases := []GenerationRequest{
		{StudentEmail: "s@x.com", Universities: []string{"KCL"}},
		{BookingID: "b", StudentEmail: "bad", Universities: []string{"KCL"}},
		{BookingID: "b", StudentEmail: "s@x.com", Universities: []string{" "}},
		{BookingID: "b", StudentEmail: "s@x.com", Universities: []string{"KCL"}, Metadata: json.RawMessage(`{`)},
	}
	for _, c := range cases {
		_, err := s.Generate(context.Background(), c)
		assert.True(t, domain.IsValidationError(err), "%+v", c)
	}

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
