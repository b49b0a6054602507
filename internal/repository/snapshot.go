package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/interview-assistant/internal/bank"
	"github.com/stemsi/interview-assistant/internal/model"
)

// SnapshotVersion is the layout version written into every snapshot. Blobs
// carrying any other version are rejected on load.
const SnapshotVersion = 1

// Snapshot errors.
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotCorrupt  = errors.New("snapshot corrupt")
	ErrSnapshotVersion  = errors.New("snapshot version incompatible")
)

// SnapshotStore persists the whole application state as one blob.
type SnapshotStore interface {
	// Load returns the last saved state, ErrSnapshotNotFound when nothing has
	// been saved yet, or ErrSnapshotCorrupt / ErrSnapshotVersion for blobs
	// that cannot be used.
	Load(ctx context.Context) (*model.AppState, error)
	Save(ctx context.Context, state *model.AppState) error
}

type snapshotEnvelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	State   *model.AppState `json:"state"`
}

// EncodeSnapshot serializes state into the versioned blob layout.
func EncodeSnapshot(state *model.AppState, savedAt time.Time) ([]byte, error) {
	if state == nil {
		return nil, errors.New("encode snapshot: nil state")
	}
	data, err := json.Marshal(snapshotEnvelope{
		Version: SnapshotVersion,
		SavedAt: savedAt.UTC(),
		State:   state,
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a blob produced by EncodeSnapshot.
func DecodeSnapshot(data []byte) (*model.AppState, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if env.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSnapshotVersion, env.Version, SnapshotVersion)
	}
	if env.State == nil {
		return nil, fmt.Errorf("%w: missing state", ErrSnapshotCorrupt)
	}
	if err := validateState(env.State); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	if env.State.Candidates == nil {
		env.State.Candidates = []model.Candidate{}
	}
	for i := range env.State.Candidates {
		if env.State.Candidates[i].CompletedSessions == nil {
			env.State.Candidates[i].CompletedSessions = []model.InterviewSession{}
		}
	}
	if env.State.ActiveTab == "" {
		env.State.ActiveTab = model.TabInterviewee
	}
	return env.State, nil
}

// validateState rejects enum values and shapes that the state machine could
// never have produced.
func validateState(s *model.AppState) error {
	if s.ActiveTab != "" && !s.ActiveTab.Valid() {
		return fmt.Errorf("unknown tab %q", s.ActiveTab)
	}
	for _, c := range s.Candidates {
		if c.CurrentSession != nil {
			if err := validateCurrentSession(c.CurrentSession); err != nil {
				return fmt.Errorf("candidate %s: %w", c.ID, err)
			}
		}
		for i := range c.CompletedSessions {
			if err := validateSession(&c.CompletedSessions[i]); err != nil {
				return fmt.Errorf("candidate %s: %w", c.ID, err)
			}
		}
	}
	return nil
}

// validateCurrentSession adds the shape of a session that is still running:
// a full question set, a question on screen and a resumable status.
func validateCurrentSession(s *model.InterviewSession) error {
	if err := validateSession(s); err != nil {
		return err
	}
	if s.Status != model.SessionStatusInProgress && s.Status != model.SessionStatusPaused {
		return fmt.Errorf("session %s: current session cannot be %q", s.ID, s.Status)
	}
	if len(s.Questions) != bank.Size {
		return fmt.Errorf("session %s: %d questions, want %d", s.ID, len(s.Questions), bank.Size)
	}
	if s.CurrentQuestionIndex >= len(s.Questions) {
		return fmt.Errorf("session %s: question index %d past the last question", s.ID, s.CurrentQuestionIndex)
	}
	return nil
}

func validateSession(s *model.InterviewSession) error {
	switch s.Status {
	case model.SessionStatusNotStarted, model.SessionStatusInProgress,
		model.SessionStatusPaused, model.SessionStatusCompleted:
	default:
		return fmt.Errorf("session %s: unknown status %q", s.ID, s.Status)
	}
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex > len(s.Questions) {
		return fmt.Errorf("session %s: question index %d out of range", s.ID, s.CurrentQuestionIndex)
	}
	for _, q := range s.Questions {
		if !q.Difficulty.Valid() {
			return fmt.Errorf("question %s: unknown difficulty %q", q.ID, q.Difficulty)
		}
	}
	return nil
}
