// Package bank holds the static, ordered question set every session is
// cloned from.
package bank

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/interview-assistant/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultQuestions []byte

// Size is the number of questions in every session.
const Size = 6

// Order is the required difficulty sequence of the bank.
var Order = [Size]model.Difficulty{
	model.DifficultyEasy,
	model.DifficultyEasy,
	model.DifficultyMedium,
	model.DifficultyMedium,
	model.DifficultyHard,
	model.DifficultyHard,
}

// ErrInvalidBank is returned when a question document breaks the fixed shape.
var ErrInvalidBank = errors.New("invalid question bank")

// Template is one question of the bank before it is materialized into a
// session.
type Template struct {
	Text       string           `yaml:"text"`
	Difficulty model.Difficulty `yaml:"difficulty"`
	TimeLimit  int              `yaml:"time_limit"`
}

type document struct {
	Questions []Template `yaml:"questions"`
}

// Bank is an immutable, validated question set.
type Bank struct {
	templates [Size]Template
}

// Default returns the embedded question bank.
func Default() *Bank {
	b, err := Parse(defaultQuestions)
	if err != nil {
		panic(fmt.Sprintf("embedded question bank: %v", err))
	}
	return b
}

// Load reads a bank from path, or returns the embedded bank when path is empty.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML question document.
func Parse(data []byte) (*Bank, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}

	if len(doc.Questions) != Size {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", ErrInvalidBank, Size, len(doc.Questions))
	}

	b := &Bank{}
	for i, t := range doc.Questions {
		if t.Text == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrInvalidBank, i+1)
		}
		if t.Difficulty != Order[i] {
			return nil, fmt.Errorf("%w: question %d must be %s, got %q", ErrInvalidBank, i+1, Order[i], t.Difficulty)
		}
		if t.TimeLimit <= 0 {
			return nil, fmt.Errorf("%w: question %d needs a positive time_limit", ErrInvalidBank, i+1)
		}
		b.templates[i] = t
	}
	return b, nil
}

// Templates returns a copy of the bank in order.
func (b *Bank) Templates() []Template {
	out := make([]Template, Size)
	copy(out, b.templates[:])
	return out
}

// Materialize clones the bank into fresh questions with new identities.
func (b *Bank) Materialize(now time.Time) []model.Question {
	questions := make([]model.Question, Size)
	for i, t := range b.templates {
		questions[i] = model.Question{
			ID:         uuid.New(),
			Text:       t.Text,
			Difficulty: t.Difficulty,
			TimeLimit:  t.TimeLimit,
			Timestamp:  now,
		}
	}
	return questions
}
