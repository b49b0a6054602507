package scoring

import (
	"fmt"

	"github.com/stemsi/interview-assistant/internal/model"
)

// Aggregate computes the total score of a finished session as the plain mean
// of its question scores (unanswered questions count as zero) and the summary
// judgment that goes with it. It is deterministic.
func Aggregate(questions []model.Question) (total float64, summary string) {
	if len(questions) == 0 {
		return 0, Summary(0)
	}

	sum := 0
	for _, q := range questions {
		if q.Score != nil {
			sum += *q.Score
		}
	}
	total = float64(sum) / float64(len(questions))
	return total, Summary(total)
}

// Summary renders the judgment for a total score.
func Summary(total float64) string {
	level := "basic"
	switch {
	case total > 80:
		level = "strong"
	case total > 70:
		level = "good"
	}

	recommendation := "Consider for junior role or additional training."
	if total > 80 {
		recommendation = "Recommended for next round."
	}

	return fmt.Sprintf("Candidate demonstrated %s technical knowledge. %s", level, recommendation)
}
