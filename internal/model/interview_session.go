package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates interview session states.
type SessionStatus string

const (
	SessionStatusNotStarted SessionStatus = "not-started"
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusPaused     SessionStatus = "paused"
	SessionStatusCompleted  SessionStatus = "completed"
)

// Resumable reports whether a session in this status can be continued.
func (s SessionStatus) Resumable() bool {
	return s == SessionStatusInProgress || s == SessionStatusPaused
}

// InterviewSession is one attempt at the fixed interview by one candidate.
type InterviewSession struct {
	ID                   uuid.UUID     `json:"id"`
	CandidateID          uuid.UUID     `json:"candidate_id"`
	StartTime            time.Time     `json:"start_time"`
	EndTime              *time.Time    `json:"end_time,omitempty"`
	Status               SessionStatus `json:"status"`
	CurrentQuestionIndex int           `json:"current_question_index"`
	Questions            []Question    `json:"questions"`
	TotalScore           *float64      `json:"total_score,omitempty"`
	AISummary            *string       `json:"ai_summary,omitempty"`
}

// CurrentQuestion returns the question at the current index, or nil once the
// index has run past the last question.
func (s *InterviewSession) CurrentQuestion() *Question {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentQuestionIndex]
}

// FindQuestion returns the question with the given id.
func (s *InterviewSession) FindQuestion(id uuid.UUID) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the session.
func (s InterviewSession) Clone() InterviewSession {
	out := s
	if s.EndTime != nil {
		t := *s.EndTime
		out.EndTime = &t
	}
	if s.TotalScore != nil {
		v := *s.TotalScore
		out.TotalScore = &v
	}
	if s.AISummary != nil {
		v := *s.AISummary
		out.AISummary = &v
	}
	if s.Questions != nil {
		out.Questions = make([]Question, len(s.Questions))
		for i, q := range s.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	return out
}

// SubmitAnswerRequest submits the answer to the current question. QuestionID,
// when set, must match the question currently on screen.
type SubmitAnswerRequest struct {
	QuestionID *uuid.UUID `json:"question_id"`
	Answer     string     `json:"answer" binding:"max=10000"`
}

// DraftAnswerRequest autosaves what the candidate has typed so far.
type DraftAnswerRequest struct {
	Answer string `json:"answer" binding:"max=10000"`
}
