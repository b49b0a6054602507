package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/metrics"
	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stemsi/interview-assistant/internal/service"
)

var (
	ErrSubmissionInProgress = errors.New("a submission is already being processed")
	ErrSessionPaused        = errors.New("session is paused")
	ErrStaleQuestion        = errors.New("question is no longer current")
)

const (
	DefaultTickInterval = time.Second
	DefaultSubmitDelay  = time.Second
)

// SessionMachine is the part of the interview state machine the countdown
// drives.
type SessionMachine interface {
	CurrentQuestion(candidateID uuid.UUID) (*service.ActiveQuestion, error)
	SubmitAnswer(ctx context.Context, candidateID, questionID uuid.UUID, answer string) (*model.Question, error)
	AdvanceSession(ctx context.Context, candidateID, sessionID uuid.UUID) (*model.InterviewSession, error)
	Pause(ctx context.Context, candidateID uuid.UUID) error
	Resume(ctx context.Context, candidateID uuid.UUID) error
}

// EventType names a countdown event.
type EventType string

const (
	EventQuestion  EventType = "question"
	EventTick      EventType = "tick"
	EventSubmitted EventType = "submitted"
	EventCompleted EventType = "completed"
	EventPaused    EventType = "paused"
	EventResumed   EventType = "resumed"
	EventExpired   EventType = "expired"
)

// Event is emitted to every listener on countdown and submission changes.
type Event struct {
	Type        EventType               `json:"type"`
	CandidateID uuid.UUID               `json:"candidate_id"`
	Index       int                     `json:"index"`
	Total       int                     `json:"total,omitempty"`
	Remaining   int                     `json:"remaining"`
	Question    *model.Question         `json:"question,omitempty"`
	Session     *model.InterviewSession `json:"session,omitempty"`
	At          time.Time               `json:"at"`
}

type draft struct {
	questionID uuid.UUID
	text       string
}

// CountdownWorker runs the per-question countdown. Only one countdown is
// armed at a time, bound to a (candidate, question) pair. Every submission,
// manual or on expiry, goes through Submit which allows one submission per
// candidate at a time.
type CountdownWorker struct {
	machine     SessionMachine
	log         zerolog.Logger
	tickEvery   time.Duration
	submitDelay time.Duration

	mu          sync.Mutex
	armed       bool
	candidateID uuid.UUID
	questionID  uuid.UUID
	index       int
	total       int
	remaining   int
	running     bool
	gen         uint64
	cancel      context.CancelFunc
	submitting  map[uuid.UUID]bool
	drafts      map[uuid.UUID]draft

	lmu       sync.RWMutex
	listeners []func(Event)
}

// NewCountdownWorker creates a CountdownWorker. Zero durations fall back to
// the defaults; a negative submitDelay disables the delay.
func NewCountdownWorker(machine SessionMachine, tickEvery, submitDelay time.Duration, log zerolog.Logger) *CountdownWorker {
	if tickEvery <= 0 {
		tickEvery = DefaultTickInterval
	}
	if submitDelay == 0 {
		submitDelay = DefaultSubmitDelay
	}
	return &CountdownWorker{
		machine:     machine,
		log:         log.With().Str("component", "countdown_worker").Logger(),
		tickEvery:   tickEvery,
		submitDelay: submitDelay,
		submitting:  make(map[uuid.UUID]bool),
		drafts:      make(map[uuid.UUID]draft),
	}
}

// Subscribe registers a listener. Listeners are called synchronously and must
// not block or call back into the worker.
func (w *CountdownWorker) Subscribe(fn func(Event)) {
	w.lmu.Lock()
	defer w.lmu.Unlock()
	w.listeners = append(w.listeners, fn)
}

func (w *CountdownWorker) publish(events ...Event) {
	w.lmu.RLock()
	defer w.lmu.RUnlock()
	for _, ev := range events {
		for _, fn := range w.listeners {
			fn(ev)
		}
	}
}

// Start blocks until ctx is cancelled, then stops any running countdown.
// Call in a goroutine.
func (w *CountdownWorker) Start(ctx context.Context) {
	w.log.Info().Dur("tick", w.tickEvery).Msg("Worker started")
	<-ctx.Done()
	w.Stop()
	w.log.Info().Msg("Worker stopped")
}

// Stop cancels the running countdown and forgets the armed question.
func (w *CountdownWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
	w.armed = false
}

// ─── Arming ───────────────────────────────────────────────────────────────

// Arm binds the countdown to the candidate's current question. A new question
// starts from its full time limit; re-arming the same question keeps the
// remaining time. The countdown ticks only while the session is in progress.
func (w *CountdownWorker) Arm(candidateID uuid.UUID) error {
	w.mu.Lock()
	events, err := w.armLocked(candidateID)
	w.mu.Unlock()

	w.publish(events...)
	return err
}

func (w *CountdownWorker) armLocked(candidateID uuid.UUID) ([]Event, error) {
	aq, err := w.machine.CurrentQuestion(candidateID)
	if err != nil {
		return nil, err
	}

	var events []Event
	if !w.armed || w.candidateID != candidateID || w.questionID != aq.Question.ID {
		w.stopLocked()
		if w.armed && w.candidateID != candidateID {
			w.log.Debug().
				Str("from", w.candidateID.String()).
				Str("to", candidateID.String()).
				Msg("Countdown moved to another candidate")
		}
		w.armed = true
		w.candidateID = candidateID
		w.questionID = aq.Question.ID
		w.index = aq.Index
		w.total = aq.Total
		w.remaining = aq.Question.TimeLimit

		q := aq.Question.Clone()
		events = append(events, w.eventLocked(EventQuestion, &q, nil))
	}

	switch aq.Status {
	case model.SessionStatusInProgress:
		if !w.running {
			w.startLocked()
		}
	default:
		w.stopLocked()
	}
	return events, nil
}

// Disarm stops the countdown if it belongs to the candidate.
func (w *CountdownWorker) Disarm(candidateID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.drafts, candidateID)
	if w.armed && w.candidateID == candidateID {
		w.stopLocked()
		w.armed = false
	}
}

// Remaining reports the seconds left on the candidate's countdown.
func (w *CountdownWorker) Remaining(candidateID uuid.UUID) (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.armed || w.candidateID != candidateID {
		return 0, false
	}
	return w.remaining, true
}

// UpdateDraft stores the in-progress answer for the candidate's current
// question. It is what gets submitted when the countdown expires.
func (w *CountdownWorker) UpdateDraft(candidateID uuid.UUID, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	aq, err := w.machine.CurrentQuestion(candidateID)
	if err != nil {
		return err
	}
	w.drafts[candidateID] = draft{questionID: aq.Question.ID, text: text}
	return nil
}

// Draft returns the stored draft for the candidate's current question.
func (w *CountdownWorker) Draft(candidateID uuid.UUID) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	aq, err := w.machine.CurrentQuestion(candidateID)
	if err != nil {
		return ""
	}
	return w.draftLocked(candidateID, aq.Question.ID)
}

func (w *CountdownWorker) draftLocked(candidateID, questionID uuid.UUID) string {
	d, ok := w.drafts[candidateID]
	if !ok || d.questionID != questionID {
		return ""
	}
	return d.text
}

func (w *CountdownWorker) startLocked() {
	w.gen++
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.running = true
	go w.loop(ctx, w.gen)
}

func (w *CountdownWorker) stopLocked() {
	w.gen++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.running = false
}

func (w *CountdownWorker) eventLocked(t EventType, q *model.Question, sess *model.InterviewSession) Event {
	return Event{
		Type:        t,
		CandidateID: w.candidateID,
		Index:       w.index,
		Total:       w.total,
		Remaining:   w.remaining,
		Question:    q,
		Session:     sess,
		At:          time.Now().UTC(),
	}
}

// ─── Ticking ──────────────────────────────────────────────────────────────

func (w *CountdownWorker) loop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(w.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.step(gen) {
				return
			}
		}
	}
}

// step decrements the countdown for generation gen. It reports whether the
// loop should keep ticking. On zero the draft is submitted.
func (w *CountdownWorker) step(gen uint64) bool {
	w.mu.Lock()
	if gen != w.gen || !w.running {
		w.mu.Unlock()
		return false
	}

	w.remaining--
	if w.remaining > 0 {
		ev := w.eventLocked(EventTick, nil, nil)
		w.mu.Unlock()
		w.publish(ev)
		return true
	}

	w.remaining = 0
	w.stopLocked()
	candidateID := w.candidateID
	questionID := w.questionID
	answer := w.draftLocked(candidateID, questionID)
	ev := w.eventLocked(EventExpired, nil, nil)
	w.mu.Unlock()

	w.publish(ev)
	w.log.Info().
		Str("candidate_id", candidateID.String()).
		Str("question_id", questionID.String()).
		Msg("Time expired, submitting draft")

	_, err := w.submit(context.Background(), candidateID, &questionID, answer, metrics.TriggerTimer)
	if err != nil && !errors.Is(err, ErrSubmissionInProgress) && !errors.Is(err, ErrStaleQuestion) {
		w.log.Error().Err(err).Str("candidate_id", candidateID.String()).Msg("Auto-submit failed")
	}
	return false
}

// ─── Commands ─────────────────────────────────────────────────────────────

// Submit records the answer for the candidate's current question, waits the
// processing delay and advances. When questionID is set it must match the
// current question. Returns the session after advancing.
func (w *CountdownWorker) Submit(ctx context.Context, candidateID uuid.UUID, questionID *uuid.UUID, answer string) (*model.InterviewSession, error) {
	return w.submit(ctx, candidateID, questionID, answer, metrics.TriggerManual)
}

func (w *CountdownWorker) submit(ctx context.Context, candidateID uuid.UUID, questionID *uuid.UUID, answer, trigger string) (*model.InterviewSession, error) {
	w.mu.Lock()
	if w.submitting[candidateID] {
		w.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	aq, err := w.machine.CurrentQuestion(candidateID)
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if aq.Status == model.SessionStatusPaused {
		w.mu.Unlock()
		return nil, ErrSessionPaused
	}
	if questionID != nil && *questionID != aq.Question.ID {
		w.mu.Unlock()
		return nil, ErrStaleQuestion
	}
	w.submitting[candidateID] = true
	if w.armed && w.candidateID == candidateID {
		w.stopLocked()
	}
	w.mu.Unlock()

	done := func() {
		w.mu.Lock()
		delete(w.submitting, candidateID)
		w.mu.Unlock()
	}

	q, err := w.machine.SubmitAnswer(ctx, candidateID, aq.Question.ID, answer)
	if q == nil {
		done()
		return nil, err
	}
	if err != nil {
		w.log.Warn().Err(err).Msg("Answer recorded but not persisted")
	}
	metrics.AnswerSubmitted(trigger)
	w.publish(Event{
		Type:        EventSubmitted,
		CandidateID: candidateID,
		Index:       aq.Index,
		Total:       aq.Total,
		Question:    q,
		At:          time.Now().UTC(),
	})

	if w.submitDelay > 0 {
		t := time.NewTimer(w.submitDelay)
		<-t.C
	}

	// A reset or restart during the delay replaces the session; the new one
	// must not advance on this answer.
	sess, err := w.machine.AdvanceSession(context.WithoutCancel(ctx), candidateID, aq.SessionID)
	if sess == nil {
		done()
		return nil, err
	}
	if err != nil {
		w.log.Warn().Err(err).Msg("Advance recorded but not persisted")
	}

	w.mu.Lock()
	delete(w.submitting, candidateID)
	delete(w.drafts, candidateID)

	if sess.Status == model.SessionStatusCompleted {
		if w.armed && w.candidateID == candidateID {
			w.stopLocked()
			w.armed = false
		}
		w.mu.Unlock()
		w.publish(Event{
			Type:        EventCompleted,
			CandidateID: candidateID,
			Index:       sess.CurrentQuestionIndex,
			Total:       len(sess.Questions),
			Session:     sess,
			At:          time.Now().UTC(),
		})
		return sess, nil
	}

	var events []Event
	if !w.armed || w.candidateID == candidateID {
		events, err = w.armLocked(candidateID)
		if err != nil {
			w.log.Error().Err(err).Msg("Re-arm after submit failed")
		}
	}
	w.mu.Unlock()

	w.publish(events...)
	return sess, nil
}

// Pause pauses the session and stops the countdown, keeping the remaining
// time.
func (w *CountdownWorker) Pause(ctx context.Context, candidateID uuid.UUID) error {
	w.mu.Lock()
	if w.submitting[candidateID] {
		w.mu.Unlock()
		return ErrSubmissionInProgress
	}
	// ErrPersistFailed means the session is paused in memory, so the
	// countdown must stop too.
	err := w.machine.Pause(ctx, candidateID)
	if err != nil && !errors.Is(err, service.ErrPersistFailed) {
		w.mu.Unlock()
		return err
	}

	ev := Event{Type: EventPaused, CandidateID: candidateID, At: time.Now().UTC()}
	if w.armed && w.candidateID == candidateID {
		w.stopLocked()
		ev = w.eventLocked(EventPaused, nil, nil)
	}
	w.mu.Unlock()

	w.publish(ev)
	return err
}

// Resume resumes the session and continues the countdown from where it was
// paused.
func (w *CountdownWorker) Resume(ctx context.Context, candidateID uuid.UUID) error {
	w.mu.Lock()
	resumeErr := w.machine.Resume(ctx, candidateID)
	if resumeErr != nil && !errors.Is(resumeErr, service.ErrPersistFailed) {
		w.mu.Unlock()
		return resumeErr
	}
	events, err := w.armLocked(candidateID)
	if err == nil {
		events = append(events, w.eventLocked(EventResumed, nil, nil))
	}
	w.mu.Unlock()

	w.publish(events...)
	if err != nil {
		return err
	}
	return resumeErr
}
