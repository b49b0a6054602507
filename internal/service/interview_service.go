package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/bank"
	"github.com/stemsi/interview-assistant/internal/metrics"
	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stemsi/interview-assistant/internal/repository"
	"github.com/stemsi/interview-assistant/internal/scoring"
)

// Precondition errors. Returning one of these guarantees the state was not
// touched.
var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrProfileIncomplete = errors.New("candidate profile is incomplete")
	ErrSessionActive     = errors.New("candidate already has an active session")
	ErrNoActiveSession   = errors.New("candidate has no active session")
	ErrQuestionNotFound  = errors.New("question not found in current session")
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrInvalidTab        = errors.New("invalid tab")
)

// ErrPersistFailed wraps a snapshot flush failure. The in-memory transition
// has already been applied when it is returned.
var ErrPersistFailed = errors.New("persist snapshot")

// InterviewService owns the application state tree. Every mutation goes
// through one of its transition methods, under a single lock, and is followed
// by a snapshot flush.
type InterviewService struct {
	mu     sync.Mutex
	state  *model.AppState
	bank   *bank.Bank
	scorer scoring.Scorer
	store  repository.SnapshotStore
	log    zerolog.Logger
	now    func() time.Time
}

// NewInterviewService creates an InterviewService holding the empty state.
// Call Load to rehydrate the last snapshot.
func NewInterviewService(
	questions *bank.Bank,
	scorer scoring.Scorer,
	store repository.SnapshotStore,
	log zerolog.Logger,
) *InterviewService {
	return &InterviewService{
		state:  model.NewAppState(),
		bank:   questions,
		scorer: scorer,
		store:  store,
		log:    log.With().Str("component", "interview_service").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source. Intended for tests.
func (s *InterviewService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// ─── Persistence ──────────────────────────────────────────────────────────

// Load replaces the in-memory state with the last snapshot. A missing,
// corrupt or incompatible snapshot, or an unreachable store, yields the empty
// initial state. If any session can be resumed the welcome-back notice is
// raised.
func (s *InterviewService) Load(ctx context.Context) *model.AppState {
	state, err := s.store.Load(ctx)
	switch {
	case err == nil:
		s.log.Info().Int("candidates", len(state.Candidates)).Msg("Snapshot restored")
	case errors.Is(err, repository.ErrSnapshotNotFound):
		s.log.Info().Msg("No snapshot found, starting empty")
		state = model.NewAppState()
	default:
		s.log.Warn().Err(err).Msg("Snapshot unusable, starting empty")
		metrics.SnapshotFailed("load")
		state = model.NewAppState()
	}

	if state.HasResumableSession() {
		state.ShowWelcomeBack = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	return s.state.Clone()
}

// Flush writes the current state to the store.
func (s *InterviewService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx)
}

func (s *InterviewService) commitLocked(ctx context.Context) error {
	if err := s.store.Save(ctx, s.state); err != nil {
		metrics.SnapshotFailed("save")
		s.log.Error().Err(err).Msg("Snapshot flush failed")
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}

func (s *InterviewService) candidateLocked(id uuid.UUID) (*model.Candidate, error) {
	c := s.state.FindCandidate(id)
	if c == nil {
		return nil, ErrCandidateNotFound
	}
	return c, nil
}

// ─── Reads ────────────────────────────────────────────────────────────────

// State returns a deep copy of the whole state tree.
func (s *InterviewService) State() *model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Candidate returns a copy of one candidate.
func (s *InterviewService) Candidate(id uuid.UUID) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(id)
	if err != nil {
		return nil, err
	}
	out := c.Clone()
	return &out, nil
}

// ActiveQuestion describes the question a candidate is currently facing.
type ActiveQuestion struct {
	SessionID uuid.UUID           `json:"session_id"`
	Status    model.SessionStatus `json:"status"`
	Index     int                 `json:"index"`
	Total     int                 `json:"total"`
	Question  model.Question      `json:"question"`
}

// CurrentQuestion returns the question at the current index of the
// candidate's active session.
func (s *InterviewService) CurrentQuestion(candidateID uuid.UUID) (*ActiveQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(candidateID)
	if err != nil {
		return nil, err
	}
	sess := c.CurrentSession
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	q := sess.CurrentQuestion()
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	return &ActiveQuestion{
		SessionID: sess.ID,
		Status:    sess.Status,
		Index:     sess.CurrentQuestionIndex,
		Total:     len(sess.Questions),
		Question:  q.Clone(),
	}, nil
}

// ResumableSession is an unfinished session offered on the welcome-back
// prompt.
type ResumableSession struct {
	CandidateID   uuid.UUID           `json:"candidate_id"`
	CandidateName string              `json:"candidate_name"`
	SessionID     uuid.UUID           `json:"session_id"`
	Status        model.SessionStatus `json:"status"`
	Index         int                 `json:"current_question_index"`
	Total         int                 `json:"total_questions"`
	Progress      float64             `json:"progress"`
	Question      string              `json:"current_question"`
	Difficulty    model.Difficulty    `json:"difficulty"`
	TimeLimit     int                 `json:"time_limit"`
}

// ResumableSessions lists every in-progress or paused session.
func (s *InterviewService) ResumableSessions() []ResumableSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []ResumableSession{}
	for i := range s.state.Candidates {
		c := &s.state.Candidates[i]
		sess := c.CurrentSession
		if sess == nil || !sess.Status.Resumable() {
			continue
		}
		entry := ResumableSession{
			CandidateID:   c.ID,
			CandidateName: c.Name,
			SessionID:     sess.ID,
			Status:        sess.Status,
			Index:         sess.CurrentQuestionIndex,
			Total:         len(sess.Questions),
		}
		if entry.Total > 0 {
			entry.Progress = float64(sess.CurrentQuestionIndex+1) / float64(entry.Total) * 100
		}
		if q := sess.CurrentQuestion(); q != nil {
			entry.Question = q.Text
			entry.Difficulty = q.Difficulty
			entry.TimeLimit = q.TimeLimit
		}
		out = append(out, entry)
	}
	return out
}

// ─── Profile & UI selection ───────────────────────────────────────────────

// AddCandidate creates a candidate from a submitted profile and selects it.
func (s *InterviewService) AddCandidate(ctx context.Context, req model.CreateCandidateRequest) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Candidate{
		ID:                uuid.New(),
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		ResumeText:        req.ResumeText,
		CompletedSessions: []model.InterviewSession{},
		CreatedAt:         s.now(),
	}
	c.RefreshProfileComplete()

	s.state.Candidates = append(s.state.Candidates, c)
	id := c.ID
	s.state.CurrentCandidateID = &id

	s.log.Info().
		Str("candidate_id", c.ID.String()).
		Bool("profile_complete", c.ProfileComplete).
		Msg("Candidate added")

	out := c.Clone()
	return &out, s.commitLocked(ctx)
}

// UpdateCandidate applies profile edits and recomputes completeness.
func (s *InterviewService) UpdateCandidate(ctx context.Context, id uuid.UUID, req model.UpdateCandidateRequest) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		c.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		c.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.ResumeText != nil {
		text := *req.ResumeText
		c.ResumeText = &text
	}
	c.RefreshProfileComplete()

	out := c.Clone()
	return &out, s.commitLocked(ctx)
}

// SelectCandidate makes id the active candidate, or clears the selection when
// id is nil.
func (s *InterviewService) SelectCandidate(ctx context.Context, id *uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == nil {
		s.state.CurrentCandidateID = nil
		return s.commitLocked(ctx)
	}
	if _, err := s.candidateLocked(*id); err != nil {
		return err
	}
	selected := *id
	s.state.CurrentCandidateID = &selected
	return s.commitLocked(ctx)
}

// SetActiveTab switches the front tab.
func (s *InterviewService) SetActiveTab(ctx context.Context, tab model.Tab) error {
	if !tab.Valid() {
		return ErrInvalidTab
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveTab = tab
	return s.commitLocked(ctx)
}

// SetWelcomeBack raises or dismisses the welcome-back notice.
func (s *InterviewService) SetWelcomeBack(ctx context.Context, show bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ShowWelcomeBack = show
	return s.commitLocked(ctx)
}

// ─── Session transitions ──────────────────────────────────────────────────

// StartInterview materializes the question bank into a fresh in-progress
// session for a candidate with a complete profile and no current session.
//
// If another candidate already has an in-progress session and the candidate
// being started is not the selected one, the welcome-back notice is raised.
func (s *InterviewService) StartInterview(ctx context.Context, candidateID uuid.UUID) (*model.InterviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(candidateID)
	if err != nil {
		return nil, err
	}
	if !c.ProfileComplete {
		return nil, ErrProfileIncomplete
	}
	if c.CurrentSession != nil {
		return nil, ErrSessionActive
	}

	now := s.now()
	sess := &model.InterviewSession{
		ID:                   uuid.New(),
		CandidateID:          candidateID,
		StartTime:            now,
		Status:               model.SessionStatusInProgress,
		CurrentQuestionIndex: 0,
		Questions:            s.bank.Materialize(now),
	}
	c.CurrentSession = sess

	otherInProgress := false
	for i := range s.state.Candidates {
		other := &s.state.Candidates[i]
		if other.ID != candidateID && other.CurrentSession != nil &&
			other.CurrentSession.Status == model.SessionStatusInProgress {
			otherInProgress = true
			break
		}
	}
	selected := s.state.CurrentCandidateID
	if otherInProgress && (selected == nil || *selected != candidateID) {
		s.state.ShowWelcomeBack = true
	}

	metrics.SessionStarted()
	s.log.Info().
		Str("candidate_id", candidateID.String()).
		Str("session_id", sess.ID.String()).
		Msg("Interview started")

	out := sess.Clone()
	return &out, s.commitLocked(ctx)
}

// SubmitAnswer records an answer for a question of the current session and
// scores it. Blank answers are stored as the sentinel. A repeated submission
// overwrites the previous one; callers serialize submissions.
func (s *InterviewService) SubmitAnswer(ctx context.Context, candidateID, questionID uuid.UUID, answer string) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(candidateID)
	if err != nil {
		return nil, err
	}
	if c.CurrentSession == nil {
		return nil, ErrNoActiveSession
	}
	q := c.CurrentSession.FindQuestion(questionID)
	if q == nil {
		return nil, ErrQuestionNotFound
	}

	text := model.NormalizeAnswer(answer)
	score, feedback := s.scorer.ScoreQuestion(text, q.Difficulty)
	score = min(max(score, 0), 100)

	q.Answer = &text
	q.Score = &score
	q.Feedback = &feedback

	s.log.Debug().
		Str("candidate_id", candidateID.String()).
		Str("question_id", questionID.String()).
		Int("score", score).
		Bool("blank", text == model.NoAnswerSentinel).
		Msg("Answer scored")

	out := q.Clone()
	return &out, s.commitLocked(ctx)
}

// Advance moves to the next question. Running past the last question
// aggregates the scores, completes the session and moves it into the
// candidate's history. Callers must not advance a paused session; if they do
// it comes back in-progress.
func (s *InterviewService) Advance(ctx context.Context, candidateID uuid.UUID) (*model.InterviewSession, error) {
	return s.advance(ctx, candidateID, nil)
}

// AdvanceSession is Advance bound to one session. It fails with
// ErrNoActiveSession when the candidate's current session is no longer
// sessionID, for example after a reset and restart.
func (s *InterviewService) AdvanceSession(ctx context.Context, candidateID, sessionID uuid.UUID) (*model.InterviewSession, error) {
	return s.advance(ctx, candidateID, &sessionID)
}

func (s *InterviewService) advance(ctx context.Context, candidateID uuid.UUID, sessionID *uuid.UUID) (*model.InterviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(candidateID)
	if err != nil {
		return nil, err
	}
	sess := c.CurrentSession
	if sess == nil {
		return nil, ErrNoActiveSession
	}
	if sessionID != nil && sess.ID != *sessionID {
		return nil, fmt.Errorf("%w: session %s was replaced", ErrNoActiveSession, *sessionID)
	}

	sess.CurrentQuestionIndex++

	if sess.CurrentQuestionIndex < len(sess.Questions) {
		sess.Status = model.SessionStatusInProgress
		out := sess.Clone()
		return &out, s.commitLocked(ctx)
	}

	total, summary := scoring.Aggregate(sess.Questions)
	end := s.now()
	sess.Status = model.SessionStatusCompleted
	sess.EndTime = &end
	sess.TotalScore = &total
	sess.AISummary = &summary

	c.CompletedSessions = append(c.CompletedSessions, *sess)
	c.CurrentSession = nil

	metrics.SessionCompleted(total)
	s.log.Info().
		Str("candidate_id", candidateID.String()).
		Str("session_id", sess.ID.String()).
		Float64("total_score", total).
		Msg("Interview completed")

	out := sess.Clone()
	return &out, s.commitLocked(ctx)
}

// Pause moves an in-progress session to paused.
func (s *InterviewService) Pause(ctx context.Context, candidateID uuid.UUID) error {
	return s.setStatus(ctx, candidateID, model.SessionStatusInProgress, model.SessionStatusPaused)
}

// Resume moves a paused session back to in-progress.
func (s *InterviewService) Resume(ctx context.Context, candidateID uuid.UUID) error {
	return s.setStatus(ctx, candidateID, model.SessionStatusPaused, model.SessionStatusInProgress)
}

func (s *InterviewService) setStatus(ctx context.Context, candidateID uuid.UUID, from, to model.SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(candidateID)
	if err != nil {
		return err
	}
	if c.CurrentSession == nil {
		return ErrNoActiveSession
	}
	if c.CurrentSession.Status != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.CurrentSession.Status, to)
	}

	c.CurrentSession.Status = to
	s.log.Info().
		Str("candidate_id", candidateID.String()).
		Str("status", string(to)).
		Msg("Session status changed")
	return s.commitLocked(ctx)
}

// Reset discards the candidate's current session. Completed history is kept.
// Resetting a candidate without a session does nothing.
func (s *InterviewService) Reset(ctx context.Context, candidateID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.candidateLocked(candidateID)
	if err != nil {
		return err
	}
	if c.CurrentSession == nil {
		return nil
	}

	sessionID := c.CurrentSession.ID
	c.CurrentSession = nil

	metrics.SessionReset()
	s.log.Info().
		Str("candidate_id", candidateID.String()).
		Str("session_id", sessionID.String()).
		Msg("Interview reset")
	return s.commitLocked(ctx)
}
