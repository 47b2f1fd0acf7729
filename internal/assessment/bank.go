package assessment

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultBankYAML []byte

// Score bounds for option values and dimensional scores.
const (
	MinOptionValue = 1
	MaxOptionValue = 5
	MinScore       = 0.0
	MaxScore       = 5.0
	Midpoint       = 3.0
)

// Option is one selectable answer with its integer value.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
}

// Question is a single questionnaire prompt scored on one dimension.
type Question struct {
	ID        string    `json:"id" yaml:"id"`
	Prompt    string    `json:"prompt" yaml:"prompt"`
	Dimension Dimension `json:"dimension" yaml:"dimension"`
	// Reverse-keyed questions contribute (MinOptionValue+MaxOptionValue)-value.
	Reverse bool     `json:"reverse,omitempty" yaml:"reverse"`
	Weight  float64  `json:"weight,omitempty" yaml:"weight"`
	Options []Option `json:"options" yaml:"options"`
}

// HasOption reports whether value is one of the question's options.
func (q Question) HasOption(value int) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Bank is the ordered question set.
type Bank struct {
	Version   int        `json:"version" yaml:"version"`
	Scale     []Option   `json:"-" yaml:"scale"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Lookup returns the question with the given id.
func (b *Bank) Lookup(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// DefaultBank parses the embedded question bank.
func DefaultBank() (*Bank, error) {
	return ParseBank(defaultBankYAML)
}

// LoadBank reads a question bank from a YAML file. An empty path returns
// the embedded default.
func LoadBank(path string) (*Bank, error) {
	if path == "" {
		return DefaultBank()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank: %w", err)
	}
	return ParseBank(data)
}

// ParseBank decodes and validates a YAML question bank. Questions without
// their own options inherit the bank's scale; a zero weight means 1.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing question bank: %w", err)
	}

	for i := range b.Questions {
		q := &b.Questions[i]
		if len(q.Options) == 0 {
			q.Options = append([]Option(nil), b.Scale...)
		}
		if q.Weight == 0 {
			q.Weight = 1
		}
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks ids are unique, dimensions known, and every dimension has
// at least one question with in-range options.
func (b *Bank) Validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("question bank is empty")
	}

	seen := make(map[string]bool, len(b.Questions))
	covered := make(map[Dimension]bool, len(Dimensions))
	for _, q := range b.Questions {
		if q.ID == "" {
			return fmt.Errorf("question with prompt %q has no id", q.Prompt)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true

		if err := ValidateDimension(q.Dimension); err != nil {
			return fmt.Errorf("question %q: %w", q.ID, err)
		}
		covered[q.Dimension] = true

		if q.Weight < 0 {
			return fmt.Errorf("question %q: negative weight %v", q.ID, q.Weight)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("question %q has no options", q.ID)
		}
		for _, o := range q.Options {
			if o.Value < MinOptionValue || o.Value > MaxOptionValue {
				return fmt.Errorf("question %q: option %q value %d outside %d-%d",
					q.ID, o.Label, o.Value, MinOptionValue, MaxOptionValue)
			}
		}
	}

	for _, d := range Dimensions {
		if !covered[d] {
			return fmt.Errorf("no questions cover dimension %q", d)
		}
	}
	return nil
}
