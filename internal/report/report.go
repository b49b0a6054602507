// Package report renders the result of a completed interview for export and
// email delivery.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/interview-assistant/internal/model"
)

const noSummary = "No summary available"

var ErrUnknownFormat = errors.New("unknown report format")

// Format is an export rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat maps a query value to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Item is one question of the report.
type Item struct {
	Number     int              `json:"number"`
	Question   string           `json:"question"`
	Difficulty model.Difficulty `json:"difficulty"`
	Answer     string           `json:"answer"`
	Score      int              `json:"score"`
	Feedback   string           `json:"feedback,omitempty"`
}

// Report is the exportable result of one session.
type Report struct {
	CandidateID    uuid.UUID  `json:"candidate_id"`
	CandidateName  string     `json:"candidate_name"`
	CandidateEmail string     `json:"candidate_email"`
	SessionID      uuid.UUID  `json:"session_id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	TotalScore     float64    `json:"total_score"`
	Summary        string     `json:"summary"`
	Items          []Item     `json:"items"`
}

// Build assembles a report. Missing answers become the sentinel, missing
// scores count as 0.
func Build(c *model.Candidate, s *model.InterviewSession) *Report {
	r := &Report{
		CandidateID:    c.ID,
		CandidateName:  c.Name,
		CandidateEmail: c.Email,
		SessionID:      s.ID,
		StartTime:      s.StartTime,
		Summary:        noSummary,
		Items:          make([]Item, 0, len(s.Questions)),
	}
	if s.EndTime != nil {
		end := *s.EndTime
		r.EndTime = &end
	}
	if s.TotalScore != nil {
		r.TotalScore = *s.TotalScore
	}
	if s.AISummary != nil {
		r.Summary = *s.AISummary
	}

	for i, q := range s.Questions {
		item := Item{
			Number:     i + 1,
			Question:   q.Text,
			Difficulty: q.Difficulty,
			Answer:     model.NoAnswerSentinel,
		}
		if q.Answer != nil {
			item.Answer = *q.Answer
		}
		if q.Score != nil {
			item.Score = *q.Score
		}
		if q.Feedback != nil {
			item.Feedback = *q.Feedback
		}
		r.Items = append(r.Items, item)
	}
	return r
}

// RoundedScore is the total score rounded to a whole number.
func (r *Report) RoundedScore() int {
	return int(math.Round(r.TotalScore))
}

// Subject is the email subject line.
func (r *Report) Subject() string {
	return "Interview Results - " + r.CandidateName
}

// Text renders the report as plain text.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview Results for %s\n\n", r.CandidateName)
	fmt.Fprintf(&b, "Overall Score: %d/100\n", r.RoundedScore())
	fmt.Fprintf(&b, "Summary: %s\n", r.Summary)

	for _, it := range r.Items {
		fmt.Fprintf(&b, "\nQuestion %d (%s): %s\n", it.Number, it.Difficulty, it.Question)
		fmt.Fprintf(&b, "Answer: %s\n", it.Answer)
		fmt.Fprintf(&b, "Score: %d/100\n", it.Score)
	}
	return b.String()
}

// Render produces the report in the given format along with its content
// type.
func (r *Report) Render(f Format) ([]byte, string, error) {
	switch f {
	case FormatText:
		return []byte(r.Text()), "text/plain; charset=utf-8", nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("encode report: %w", err)
		}
		return data, "application/json", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
