package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Candidate is an interviewee profile together with its interview history.
type Candidate struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	ResumeText        *string            `json:"resume_text,omitempty"`
	CurrentSession    *InterviewSession  `json:"current_session,omitempty"`
	CompletedSessions []InterviewSession `json:"completed_sessions"`
	ProfileComplete   bool               `json:"profile_complete"`
	CreatedAt         time.Time          `json:"created_at"`
}

// IsProfileComplete reports whether name, email and phone are all present.
func IsProfileComplete(name, email, phone string) bool {
	return strings.TrimSpace(name) != "" &&
		strings.TrimSpace(email) != "" &&
		strings.TrimSpace(phone) != ""
}

// RefreshProfileComplete recomputes the derived ProfileComplete flag.
func (c *Candidate) RefreshProfileComplete() {
	c.ProfileComplete = IsProfileComplete(c.Name, c.Email, c.Phone)
}

// LatestCompleted returns the most recently completed session, if any.
func (c *Candidate) LatestCompleted() *InterviewSession {
	if len(c.CompletedSessions) == 0 {
		return nil
	}
	return &c.CompletedSessions[len(c.CompletedSessions)-1]
}

// FindCompleted returns the completed session with the given id.
func (c *Candidate) FindCompleted(id uuid.UUID) *InterviewSession {
	for i := range c.CompletedSessions {
		if c.CompletedSessions[i].ID == id {
			return &c.CompletedSessions[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the candidate.
func (c Candidate) Clone() Candidate {
	out := c
	if c.ResumeText != nil {
		t := *c.ResumeText
		out.ResumeText = &t
	}
	if c.CurrentSession != nil {
		s := c.CurrentSession.Clone()
		out.CurrentSession = &s
	}
	out.CompletedSessions = make([]InterviewSession, len(c.CompletedSessions))
	for i, s := range c.CompletedSessions {
		out.CompletedSessions[i] = s.Clone()
	}
	return out
}

// CreateCandidateRequest is the payload for submitting a new profile.
// Missing fields are accepted; the profile simply stays incomplete.
type CreateCandidateRequest struct {
	Name       string  `json:"name" binding:"omitempty,max=100"`
	Email      string  `json:"email" binding:"omitempty,email,max=255"`
	Phone      string  `json:"phone" binding:"omitempty,min=7,max=30,phone"`
	ResumeText *string `json:"resume_text" binding:"omitempty"`
}

// UpdateCandidateRequest is the payload for editing an existing profile.
// Nil fields are left untouched.
type UpdateCandidateRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=100"`
	Email      *string `json:"email" binding:"omitempty,email,max=255"`
	Phone      *string `json:"phone" binding:"omitempty,min=7,max=30,phone"`
	ResumeText *string `json:"resume_text" binding:"omitempty"`
}
