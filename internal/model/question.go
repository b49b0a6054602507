package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty grades a question. It is recorded on every question but does not
// weight scores.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// NoAnswerSentinel replaces answers submitted without any typed content.
const NoAnswerSentinel = "No answer provided"

// Question is a single timed interview question inside a session.
// Answer, Score and Feedback are always set together.
type Question struct {
	ID         uuid.UUID  `json:"id"`
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
	TimeLimit  int        `json:"time_limit"` // seconds
	Answer     *string    `json:"answer,omitempty"`
	Score      *int       `json:"score,omitempty"`
	Feedback   *string    `json:"feedback,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Answered reports whether the question has received a submission.
func (q *Question) Answered() bool {
	return q.Answer != nil
}

// NormalizeAnswer trims the raw answer and substitutes the sentinel for
// empty input.
func NormalizeAnswer(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NoAnswerSentinel
	}
	return trimmed
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	if q.Answer != nil {
		a := *q.Answer
		out.Answer = &a
	}
	if q.Score != nil {
		s := *q.Score
		out.Score = &s
	}
	if q.Feedback != nil {
		f := *q.Feedback
		out.Feedback = &f
	}
	return out
}
