package assessment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel classification failures. Both are returned wrapped in a
// *ClassificationError.
var (
	ErrIncompleteResponses = errors.New("incomplete responses")
	ErrMalformed           = errors.New("malformed responses")
)

// ClassificationError reports why a ResponseMap could not be scored.
type ClassificationError struct {
	Err         error
	QuestionIDs []string
}

func (e *ClassificationError) Error() string {
	if len(e.QuestionIDs) == 0 {
		return fmt.Sprintf("classification failed: %v", e.Err)
	}
	return fmt.Sprintf("classification failed: %v: %s", e.Err, strings.Join(e.QuestionIDs, ", "))
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// Scorer reduces a ResponseMap to dimensional scores and style labels.
type Scorer struct {
	bank *Bank
}

// NewScorer creates a Scorer for the given question bank.
func NewScorer(bank *Bank) *Scorer {
	return &Scorer{bank: bank}
}

// Bank returns the question bank the scorer validates against.
func (s *Scorer) Bank() *Bank {
	return s.bank
}

// Score computes the weighted mean per dimension. Every bank question must
// be answered with one of its option values.
func (s *Scorer) Score(responses ResponseMap) (DimensionalScores, error) {
	if err := s.check(responses); err != nil {
		return DimensionalScores{}, err
	}

	sums := make(map[Dimension]float64, len(Dimensions))
	weights := make(map[Dimension]float64, len(Dimensions))
	for _, q := range s.bank.Questions {
		v := float64(responses[q.ID])
		if q.Reverse {
			v = float64(MinOptionValue+MaxOptionValue) - v
		}
		sums[q.Dimension] += v * q.Weight
		weights[q.Dimension] += q.Weight
	}

	mean := func(d Dimension) float64 {
		if weights[d] == 0 {
			return Midpoint
		}
		return clamp(sums[d] / weights[d])
	}

	return DimensionalScores{
		Anxiety:      mean(DimensionAnxiety),
		Avoidance:    mean(DimensionAvoidance),
		Disorganized: mean(DimensionDisorganized),
	}, nil
}

// Classify scores the responses and assigns both style labels.
func (s *Scorer) Classify(responses ResponseMap) (Result, error) {
	scores, err := s.Score(responses)
	if err != nil {
		return Result{}, err
	}
	attachment := InferAttachmentStyle(scores)
	return Result{
		Scores:        scores,
		Attachment:    attachment,
		Communication: InferCommunicationStyle(attachment, scores),
	}, nil
}

// check rejects unknown ids, out-of-range values, and missing answers.
// Malformed input is reported before incompleteness.
func (s *Scorer) check(responses ResponseMap) error {
	var malformed []string
	for id, v := range responses {
		q, ok := s.bank.Lookup(id)
		if !ok || !q.HasOption(v) {
			malformed = append(malformed, id)
		}
	}
	if len(malformed) > 0 {
		sort.Strings(malformed)
		return &ClassificationError{Err: ErrMalformed, QuestionIDs: malformed}
	}

	var missing []string
	for _, q := range s.bank.Questions {
		if _, ok := responses[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return &ClassificationError{Err: ErrIncompleteResponses, QuestionIDs: missing}
	}
	return nil
}

func clamp(v float64) float64 {
	return min(max(v, MinScore), MaxScore)
}
