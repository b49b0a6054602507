package service

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/interview-assistant/internal/model"
)

// Score tiers used by the interviewer views.
const (
	TierExcellent        = "excellent"
	TierGood             = "good"
	TierNeedsImprovement = "needs_improvement"
)

const topPerformerCount = 5

// ScoreTier buckets a total score: 80 and above is excellent, 70 and above is
// good.
func ScoreTier(score float64) string {
	switch {
	case score >= 80:
		return TierExcellent
	case score >= 70:
		return TierGood
	default:
		return TierNeedsImprovement
	}
}

// Candidate list orderings.
const (
	SortByName        = "name"
	SortByLatestScore = "latest_score"
	SortByCreated     = "created_at"
)

// StateReader exposes a read-only copy of the application state.
type StateReader interface {
	State() *model.AppState
}

// CandidateSummary is one row of the interviewer's candidate list.
type CandidateSummary struct {
	ID                  uuid.UUID            `json:"id"`
	Name                string               `json:"name"`
	Email               string               `json:"email"`
	Phone               string               `json:"phone"`
	ProfileComplete     bool                 `json:"profile_complete"`
	CompletedInterviews int                  `json:"completed_interviews"`
	LatestScore         *float64             `json:"latest_score"`
	Tier                *string              `json:"tier"`
	CurrentStatus       *model.SessionStatus `json:"current_status"`
	CreatedAt           time.Time            `json:"created_at"`
}

// DifficultyStat is the average score over all answered questions of one
// difficulty in completed sessions.
type DifficultyStat struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
}

// ScoreDistribution counts candidates by the tier of their latest score.
type ScoreDistribution struct {
	Excellent        int `json:"excellent"`
	Good             int `json:"good"`
	NeedsImprovement int `json:"needs_improvement"`
}

// TopPerformer ranks a candidate by latest score.
type TopPerformer struct {
	Rank        int       `json:"rank"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	LatestScore float64   `json:"latest_score"`
	Tier        string    `json:"tier"`
}

// DashboardData consolidates all metrics for the analytics view.
type DashboardData struct {
	TotalCandidates   int                                 `json:"total_candidates"`
	TotalInterviews   int                                 `json:"total_interviews"`
	ActiveSessions    int                                 `json:"active_sessions"`
	AverageScore      float64                             `json:"average_score"`
	DifficultyStats   map[model.Difficulty]DifficultyStat `json:"difficulty_stats"`
	TopPerformers     []TopPerformer                      `json:"top_performers"`
	ScoreDistribution ScoreDistribution                   `json:"score_distribution"`
}

// DashboardService computes interviewer listings and analytics from the
// current state.
type DashboardService struct {
	state StateReader
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(state StateReader) *DashboardService {
	return &DashboardService{state: state}
}

func latestScore(c *model.Candidate) (float64, bool) {
	s := c.LatestCompleted()
	if s == nil {
		return 0, false
	}
	if s.TotalScore == nil {
		return 0, true
	}
	return *s.TotalScore, true
}

// ListCandidates returns candidates whose name or email contains query
// (case-insensitive) or whose phone contains it verbatim, in the requested
// order. Unknown orderings keep insertion order.
func (s *DashboardService) ListCandidates(query, sortBy string) []CandidateSummary {
	state := s.state.State()
	q := strings.ToLower(strings.TrimSpace(query))

	out := []CandidateSummary{}
	for i := range state.Candidates {
		c := &state.Candidates[i]
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) &&
			!strings.Contains(c.Phone, strings.TrimSpace(query)) {
			continue
		}

		row := CandidateSummary{
			ID:                  c.ID,
			Name:                c.Name,
			Email:               c.Email,
			Phone:               c.Phone,
			ProfileComplete:     c.ProfileComplete,
			CompletedInterviews: len(c.CompletedSessions),
			CreatedAt:           c.CreatedAt,
		}
		if score, ok := latestScore(c); ok {
			tier := ScoreTier(score)
			row.LatestScore = &score
			row.Tier = &tier
		}
		if c.CurrentSession != nil {
			status := c.CurrentSession.Status
			row.CurrentStatus = &status
		}
		out = append(out, row)
	}

	switch sortBy {
	case SortByName:
		slices.SortStableFunc(out, func(a, b CandidateSummary) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortByLatestScore:
		slices.SortStableFunc(out, func(a, b CandidateSummary) int {
			return cmp.Compare(scoreOrMinus(b.LatestScore), scoreOrMinus(a.LatestScore))
		})
	case SortByCreated:
		slices.SortStableFunc(out, func(a, b CandidateSummary) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	}
	return out
}

func scoreOrMinus(v *float64) float64 {
	if v == nil {
		return -1
	}
	return *v
}

// GetDashboardData computes the analytics view.
func (s *DashboardService) GetDashboardData() *DashboardData {
	state := s.state.State()

	data := &DashboardData{
		TotalCandidates: len(state.Candidates),
		DifficultyStats: map[model.Difficulty]DifficultyStat{
			model.DifficultyEasy:   {},
			model.DifficultyMedium: {},
			model.DifficultyHard:   {},
		},
		TopPerformers: []TopPerformer{},
	}

	sums := map[model.Difficulty]float64{}
	var scoreSum float64

	for i := range state.Candidates {
		c := &state.Candidates[i]
		if c.CurrentSession != nil && c.CurrentSession.Status.Resumable() {
			data.ActiveSessions++
		}

		for _, sess := range c.CompletedSessions {
			data.TotalInterviews++
			if sess.TotalScore != nil {
				scoreSum += *sess.TotalScore
			}
			for _, q := range sess.Questions {
				st := data.DifficultyStats[q.Difficulty]
				st.Total++
				data.DifficultyStats[q.Difficulty] = st
				if q.Score != nil {
					sums[q.Difficulty] += float64(*q.Score)
				}
			}
		}

		score, ok := latestScore(c)
		if !ok {
			continue
		}
		switch ScoreTier(score) {
		case TierExcellent:
			data.ScoreDistribution.Excellent++
		case TierGood:
			data.ScoreDistribution.Good++
		default:
			data.ScoreDistribution.NeedsImprovement++
		}
		data.TopPerformers = append(data.TopPerformers, TopPerformer{
			CandidateID: c.ID,
			Name:        c.Name,
			Email:       c.Email,
			LatestScore: score,
			Tier:        ScoreTier(score),
		})
	}

	if data.TotalInterviews > 0 {
		data.AverageScore = scoreSum / float64(data.TotalInterviews)
	}
	for d, st := range data.DifficultyStats {
		if st.Total > 0 {
			st.Average = sums[d] / float64(st.Total)
			data.DifficultyStats[d] = st
		}
	}

	slices.SortStableFunc(data.TopPerformers, func(a, b TopPerformer) int {
		return cmp.Compare(b.LatestScore, a.LatestScore)
	})
	if len(data.TopPerformers) > topPerformerCount {
		data.TopPerformers = data.TopPerformers[:topPerformerCount]
	}
	for i := range data.TopPerformers {
		data.TopPerformers[i].Rank = i + 1
	}
	return data
}
