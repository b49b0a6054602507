// Package scoring turns a submitted answer into a score and a feedback line.
package scoring

import (
	"math/rand/v2"
	"sync"

	"github.com/stemsi/interview-assistant/internal/model"
)

const (
	MinScore = 60
	MaxScore = 100

	FeedbackExcellent = "Excellent answer!"
	FeedbackGood      = "Good answer"
	FeedbackImprove   = "Needs improvement"
)

// Scorer evaluates one answer. The difficulty is passed along for
// implementations that want it.
type Scorer interface {
	ScoreQuestion(answer string, difficulty model.Difficulty) (score int, feedback string)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(answer string, difficulty model.Difficulty) (int, string)

func (f ScorerFunc) ScoreQuestion(answer string, difficulty model.Difficulty) (int, string) {
	return f(answer, difficulty)
}

// FeedbackFor maps a score onto its feedback tier.
func FeedbackFor(score int) string {
	switch {
	case score > 80:
		return FeedbackExcellent
	case score > 70:
		return FeedbackGood
	default:
		return FeedbackImprove
	}
}

// RandomScorer is the placeholder evaluator: a uniform score in [60, 99].
type RandomScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomScorer creates a RandomScorer. A nil source uses the global
// generator.
func NewRandomScorer(src rand.Source) *RandomScorer {
	s := &RandomScorer{}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

func (s *RandomScorer) ScoreQuestion(_ string, _ model.Difficulty) (int, string) {
	var n int
	if s.rng != nil {
		s.mu.Lock()
		n = s.rng.IntN(40)
		s.mu.Unlock()
	} else {
		n = rand.IntN(40)
	}
	score := MinScore + n
	return score, FeedbackFor(score)
}

// Fixed returns a Scorer that hands out the given scores in order, repeating
// the last one once exhausted.
func Fixed(scores ...int) Scorer {
	var mu sync.Mutex
	i := 0
	return ScorerFunc(func(string, model.Difficulty) (int, string) {
		mu.Lock()
		defer mu.Unlock()
		if len(scores) == 0 {
			return MinScore, FeedbackFor(MinScore)
		}
		score := scores[min(i, len(scores)-1)]
		i++
		return score, FeedbackFor(score)
	})
}
