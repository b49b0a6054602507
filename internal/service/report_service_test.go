package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/report"
	"github.com/stemsi/interview-assistant/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	sent []report.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg report.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestReportServiceBuild(t *testing.T) {
	svc, _ := newTestService(t, scoring.Fixed(60, 70, 80, 90, 100, 60))
	ctx := context.Background()
	c := addComplete(t, svc, "A B")

	reports := NewReportService(svc, &captureMailer{}, zerolog.Nop())

	_, err := reports.Build(c.ID, nil)
	assert.ErrorIs(t, err, ErrNoCompletedSession)
	_, err = reports.Build(uuid.New(), nil)
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	_, err = svc.StartInterview(ctx, c.ID)
	require.NoError(t, err)
	done := answerAll(t, svc, c.ID)

	r, err := reports.Build(c.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, done.ID, r.SessionID)
	assert.Equal(t, 77, r.RoundedScore())
	assert.Len(t, r.Items, 6)

	r, err = reports.Build(c.ID, &done.ID)
	require.NoError(t, err)
	assert.Equal(t, done.ID, r.SessionID)

	other := uuid.New()
	_, err = reports.Build(c.ID, &other)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestReportServiceEmail(t *testing.T) {
	svc, store := newTestService(t, scoring.Fixed(90))
	ctx := context.Background()
	c := addComplete(t, svc, "A B")
	_, err := svc.StartInterview(ctx, c.ID)
	require.NoError(t, err)
	answerAll(t, svc, c.ID)

	mailer := &captureMailer{}
	reports := NewReportService(svc, mailer, zerolog.Nop())

	_, err = reports.Email(ctx, c.ID, nil)
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@b.com", mailer.sent[0].To)
	assert.Equal(t, "Interview Results - A B", mailer.sent[0].Subject)

	saves := store.saves
	mailer.err = errors.New("relay down")
	_, err = reports.Email(ctx, c.ID, nil)
	assert.ErrorIs(t, err, ErrEmailFailed)
	assert.Equal(t, saves, store.saves)
}
