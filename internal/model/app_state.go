package model

import "github.com/google/uuid"

// Tab identifies which part of the UI is in front.
type Tab string

const (
	TabInterviewee Tab = "interviewee"
	TabInterviewer Tab = "interviewer"
	TabAnalytics   Tab = "analytics"
)

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	switch t {
	case TabInterviewee, TabInterviewer, TabAnalytics:
		return true
	}
	return false
}

// AppState is the whole application state tree. It is persisted as one blob.
type AppState struct {
	Candidates         []Candidate `json:"candidates"`
	CurrentCandidateID *uuid.UUID  `json:"current_candidate_id,omitempty"`
	ActiveTab          Tab         `json:"active_tab"`
	ShowWelcomeBack    bool        `json:"show_welcome_back"`
}

// NewAppState returns the empty initial state.
func NewAppState() *AppState {
	return &AppState{
		Candidates: []Candidate{},
		ActiveTab:  TabInterviewee,
	}
}

// FindCandidate returns the candidate with the given id.
func (s *AppState) FindCandidate(id uuid.UUID) *Candidate {
	for i := range s.Candidates {
		if s.Candidates[i].ID == id {
			return &s.Candidates[i]
		}
	}
	return nil
}

// HasResumableSession reports whether any candidate holds an in-progress or
// paused session.
func (s *AppState) HasResumableSession() bool {
	for i := range s.Candidates {
		if cs := s.Candidates[i].CurrentSession; cs != nil && cs.Status.Resumable() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the state.
func (s *AppState) Clone() *AppState {
	out := &AppState{
		Candidates:      make([]Candidate, len(s.Candidates)),
		ActiveTab:       s.ActiveTab,
		ShowWelcomeBack: s.ShowWelcomeBack,
	}
	for i, c := range s.Candidates {
		out.Candidates[i] = c.Clone()
	}
	if s.CurrentCandidateID != nil {
		id := *s.CurrentCandidateID
		out.CurrentCandidateID = &id
	}
	return out
}

// SelectCandidateRequest selects a candidate, or clears the selection when
// CandidateID is nil.
type SelectCandidateRequest struct {
	CandidateID *uuid.UUID `json:"candidate_id"`
}

// SetTabRequest switches the active tab.
type SetTabRequest struct {
	Tab Tab `json:"tab" binding:"required,oneof=interviewee interviewer analytics"`
}
