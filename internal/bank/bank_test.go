package bank

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBankOrder(t *testing.T) {
	b := Default()
	templates := b.Templates()

	require.Len(t, templates, Size)
	limits := []int{20, 20, 60, 60, 120, 120}
	for i, tpl := range templates {
		assert.Equal(t, Order[i], tpl.Difficulty)
		assert.Equal(t, limits[i], tpl.TimeLimit)
		assert.NotEmpty(t, tpl.Text)
	}
}

func TestMaterializeFreshIdentities(t *testing.T) {
	b := Default()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	first := b.Materialize(now)
	second := b.Materialize(now)

	seen := map[string]bool{}
	for i := range first {
		assert.Equal(t, first[i].Text, second[i].Text)
		assert.NotEqual(t, first[i].ID, second[i].ID)
		assert.Equal(t, now, first[i].Timestamp)
		assert.Nil(t, first[i].Answer)
		assert.Nil(t, first[i].Score)
		assert.False(t, seen[first[i].ID.String()])
		seen[first[i].ID.String()] = true
	}
}

func TestParseRejectsWrongShape(t *testing.T) {
	tests := map[string]string{
		"too few": `questions:
  - {text: "q", difficulty: easy, time_limit: 20}`,
		"wrong order": `questions:
  - {text: "q1", difficulty: hard, time_limit: 20}
  - {text: "q2", difficulty: easy, time_limit: 20}
  - {text: "q3", difficulty: medium, time_limit: 60}
  - {text: "q4", difficulty: medium, time_limit: 60}
  - {text: "q5", difficulty: hard, time_limit: 120}
  - {text: "q6", difficulty: hard, time_limit: 120}`,
		"zero limit": `questions:
  - {text: "q1", difficulty: easy, time_limit: 0}
  - {text: "q2", difficulty: easy, time_limit: 20}
  - {text: "q3", difficulty: medium, time_limit: 60}
  - {text: "q4", difficulty: medium, time_limit: 60}
  - {text: "q5", difficulty: hard, time_limit: 120}
  - {text: "q6", difficulty: hard, time_limit: 120}`,
		"not yaml": "questions: [",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidBank)
		})
	}
}

func TestLoadOverrideFile(t *testing.T) {
	doc := `questions:
  - {text: "q1", difficulty: easy, time_limit: 10}
  - {text: "q2", difficulty: easy, time_limit: 10}
  - {text: "q3", difficulty: medium, time_limit: 30}
  - {text: "q4", difficulty: medium, time_limit: 30}
  - {text: "q5", difficulty: hard, time_limit: 90}
  - {text: "q6", difficulty: hard, time_limit: 90}
`
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "q5", b.Templates()[4].Text)
	assert.Equal(t, model.DifficultyHard, b.Templates()[4].Difficulty)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
