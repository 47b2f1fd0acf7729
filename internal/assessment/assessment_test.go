package assessment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func testScorer(t *testing.T) *Scorer {
	t.Helper()
	bank, err := DefaultBank()
	require.NoError(t, err)
	return NewScorer(bank)
}

// responsesAt answers every question so that each dimension's effective
// score equals the given level, honouring reverse-keyed questions.
func responsesAt(bank *Bank, levels map[Dimension]int) ResponseMap {
	r := make(ResponseMap, len(bank.Questions))
	for _, q := range bank.Questions {
		v := levels[q.Dimension]
		if q.Reverse {
			v = MinOptionValue + MaxOptionValue - v
		}
		r[q.ID] = v
	}
	return r
}

// --- Bank ---

func TestDefaultBank_Valid(t *testing.T) {
	bank, err := DefaultBank()
	require.NoError(t, err)
	assert.Len(t, bank.Questions, 12)
	for _, q := range bank.Questions {
		assert.Len(t, q.Options, 5, "question %s should inherit the 5-point scale", q.ID)
		assert.Equal(t, 1.0, q.Weight, "question %s default weight", q.ID)
	}
}

func TestParseBank_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "questions: []", "empty"},
		{"duplicate id", `
scale: [{label: a, value: 1}]
questions:
  - {id: x, dimension: anxiety, prompt: p}
  - {id: x, dimension: avoidance, prompt: p}
  - {id: y, dimension: disorganized, prompt: p}`, "duplicate"},
		{"bad dimension", `
scale: [{label: a, value: 1}]
questions:
  - {id: x, dimension: jealousy, prompt: p}`, "invalid dimension"},
		{"out of range", `
scale: [{label: a, value: 9}]
questions:
  - {id: x, dimension: anxiety, prompt: p}`, "outside"},
		{"uncovered dimension", `
scale: [{label: a, value: 1}]
questions:
  - {id: x, dimension: anxiety, prompt: p}`, "no questions cover"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBank([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadBank_EmptyPathUsesDefault(t *testing.T) {
	bank, err := LoadBank("")
	require.NoError(t, err)
	_, ok := bank.Lookup("q1")
	assert.True(t, ok)
}

// --- Scoring ---

func TestScore_ReverseKeyed(t *testing.T) {
	s := testScorer(t)
	r := responsesAt(s.Bank(), map[Dimension]int{
		DimensionAnxiety:      5,
		DimensionAvoidance:    1,
		DimensionDisorganized: 1,
	})
	scores, err := s.Score(r)
	require.NoError(t, err)
	assert.Equal(t, 5.0, scores.Anxiety)
	assert.Equal(t, 1.0, scores.Avoidance)
	assert.Equal(t, 1.0, scores.Disorganized)
}

func TestScore_Bounded(t *testing.T) {
	s := testScorer(t)
	for level := MinOptionValue; level <= MaxOptionValue; level++ {
		r := responsesAt(s.Bank(), map[Dimension]int{
			DimensionAnxiety: level, DimensionAvoidance: level, DimensionDisorganized: level,
		})
		scores, err := s.Score(r)
		require.NoError(t, err)
		for _, d := range Dimensions {
			v := scores.Get(d)
			assert.GreaterOrEqual(t, v, MinScore)
			assert.LessOrEqual(t, v, MaxScore)
		}
	}
}

func TestScore_Incomplete(t *testing.T) {
	s := testScorer(t)
	r := responsesAt(s.Bank(), map[Dimension]int{DimensionAnxiety: 3, DimensionAvoidance: 3, DimensionDisorganized: 3})
	delete(r, "q4")

	_, err := s.Score(r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteResponses))

	var ce *ClassificationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"q4"}, ce.QuestionIDs)
}

func TestScore_Malformed(t *testing.T) {
	s := testScorer(t)
	r := responsesAt(s.Bank(), map[Dimension]int{DimensionAnxiety: 3, DimensionAvoidance: 3, DimensionDisorganized: 3})

	r["q1"] = 9
	_, err := s.Score(r)
	assert.ErrorIs(t, err, ErrMalformed)

	r["q1"] = 3
	r["bogus"] = 2
	_, err = s.Score(r)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "bogus")
}

// --- Classification ---

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		levels        map[Dimension]int
		attachment    AttachmentStyle
		communication CommunicationStyle
	}{
		{"high anxiety", map[Dimension]int{DimensionAnxiety: 5, DimensionAvoidance: 1, DimensionDisorganized: 1},
			AttachmentAnxious, CommunicationPassive},
		{"secure", map[Dimension]int{DimensionAnxiety: 1, DimensionAvoidance: 2, DimensionDisorganized: 1},
			AttachmentSecure, CommunicationAssertive},
		{"moderate anxiety", map[Dimension]int{DimensionAnxiety: 3, DimensionAvoidance: 2, DimensionDisorganized: 2},
			AttachmentAnxious, CommunicationAssertive},
		{"intense avoidance", map[Dimension]int{DimensionAnxiety: 1, DimensionAvoidance: 5, DimensionDisorganized: 1},
			AttachmentAvoidant, CommunicationPassiveAggressive},
		{"moderate avoidance", map[Dimension]int{DimensionAnxiety: 2, DimensionAvoidance: 3, DimensionDisorganized: 2},
			AttachmentAvoidant, CommunicationPassive},
		{"both elevated", map[Dimension]int{DimensionAnxiety: 3, DimensionAvoidance: 3, DimensionDisorganized: 1},
			AttachmentDisorganized, CommunicationPassiveAggressive},
		{"intense disorganized", map[Dimension]int{DimensionAnxiety: 2, DimensionAvoidance: 2, DimensionDisorganized: 5},
			AttachmentDisorganized, CommunicationAggressive},
	}
	s := testScorer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Classify(responsesAt(s.Bank(), tt.levels))
			require.NoError(t, err)
			assert.Equal(t, tt.attachment, res.Attachment)
			assert.Equal(t, tt.communication, res.Communication)
			assert.False(t, res.Fallback)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	s := testScorer(t)
	r := ResponseMap{
		"q1": 4, "q2": 2, "q3": 5, "q4": 3, "q5": 1, "q6": 2,
		"q7": 3, "q8": 4, "q9": 5, "q10": 2, "q11": 1, "q12": 3,
	}
	first, err := s.Classify(r)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := s.Classify(r.Clone())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClassify_Total(t *testing.T) {
	s := testScorer(t)
	for a := 1; a <= 5; a++ {
		for v := 1; v <= 5; v++ {
			for d := 1; d <= 5; d++ {
				res, err := s.Classify(responsesAt(s.Bank(), map[Dimension]int{
					DimensionAnxiety: a, DimensionAvoidance: v, DimensionDisorganized: d,
				}))
				require.NoError(t, err)
				assert.NoError(t, ValidateAttachment(res.Attachment))
				assert.NoError(t, ValidateCommunication(res.Communication))
			}
		}
	}
}

func TestDefaultResult(t *testing.T) {
	res := DefaultResult()
	assert.Equal(t, DimensionalScores{Anxiety: Midpoint, Avoidance: Midpoint, Disorganized: Midpoint}, res.Scores)
	assert.Equal(t, AttachmentSecure, res.Attachment)
	assert.Equal(t, CommunicationAssertive, res.Communication)
	assert.True(t, res.Fallback)
}

// --- Enums ---

func TestAttachmentCodes_RoundTrip(t *testing.T) {
	for _, a := range []AttachmentStyle{AttachmentAnxious, AttachmentSecure, AttachmentAvoidant, AttachmentDisorganized} {
		got, err := AttachmentFromCode(a.Code())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	assert.Equal(t, "B", AttachmentSecure.Code())

	_, err := AttachmentFromCode("Z")
	assert.Error(t, err)
}

func TestResponseMap_CloneIndependent(t *testing.T) {
	r := ResponseMap{"q1": 1}
	c := r.Clone()
	c["q1"] = 5
	assert.Equal(t, 1, r["q1"])
}
