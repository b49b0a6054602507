package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stemsi/interview-assistant/internal/report"
)

var (
	ErrNoCompletedSession = errors.New("candidate has no completed session")
	ErrSessionNotFound    = errors.New("session not found")
	ErrEmailFailed        = errors.New("failed to send email")
)

// CandidateReader looks up a copy of one candidate.
type CandidateReader interface {
	Candidate(id uuid.UUID) (*model.Candidate, error)
}

// ReportService builds and delivers result reports. It never mutates
// interview state.
type ReportService struct {
	candidates CandidateReader
	mailer     report.Mailer
	log        zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(candidates CandidateReader, mailer report.Mailer, log zerolog.Logger) *ReportService {
	return &ReportService{
		candidates: candidates,
		mailer:     mailer,
		log:        log.With().Str("component", "report_service").Logger(),
	}
}

// Build returns the report for a completed session, or for the latest one
// when sessionID is nil.
func (s *ReportService) Build(candidateID uuid.UUID, sessionID *uuid.UUID) (*report.Report, error) {
	c, err := s.candidates.Candidate(candidateID)
	if err != nil {
		return nil, err
	}

	var sess *model.InterviewSession
	if sessionID == nil {
		sess = c.LatestCompleted()
		if sess == nil {
			return nil, ErrNoCompletedSession
		}
	} else {
		sess = c.FindCompleted(*sessionID)
		if sess == nil {
			return nil, ErrSessionNotFound
		}
	}
	return report.Build(c, sess), nil
}

// Email sends the report to the candidate's address.
func (s *ReportService) Email(ctx context.Context, candidateID uuid.UUID, sessionID *uuid.UUID) (*report.Report, error) {
	r, err := s.Build(candidateID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, report.NewMessage(r)); err != nil {
		s.log.Error().Err(err).
			Str("candidate_id", candidateID.String()).
			Str("session_id", r.SessionID.String()).
			Msg("Report email failed")
		return nil, fmt.Errorf("%w: %v", ErrEmailFailed, err)
	}

	s.log.Info().
		Str("candidate_id", candidateID.String()).
		Str("session_id", r.SessionID.String()).
		Msg("Report emailed")
	return r, nil
}
