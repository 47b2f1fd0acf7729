package results

import (
	"strings"
	"testing"

	"github.com/HendryAvila/tether/internal/assessment"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown_Proportions(t *testing.T) {
	segs := Breakdown(assessment.DimensionalScores{Anxiety: 5, Avoidance: 1, Disorganized: 1})
	require.Len(t, segs, 3)

	assert.Equal(t, assessment.DimensionAnxiety, segs[0].Dimension)
	assert.Equal(t, 71.4, segs[0].Percent)
	assert.Equal(t, 14.3, segs[1].Percent)
	assert.Equal(t, 14.3, segs[2].Percent)
	assert.Equal(t, "#FF6B6B", segs[0].Color)
	assert.Equal(t, "#45B7D1", segs[1].Color)
}

func TestBreakdown_ZeroScoresSplitEvenly(t *testing.T) {
	for _, s := range Breakdown(assessment.DimensionalScores{}) {
		assert.Equal(t, 33.3, s.Percent)
	}
}

func TestBreakdown_SegmentsInDimensionOrder(t *testing.T) {
	got := Breakdown(assessment.DimensionalScores{Anxiety: 2, Avoidance: 2, Disorganized: 4})

	var want []Segment
	scores := []float64{2, 2, 4}
	pcts := []float64{25, 25, 50}
	for i, d := range assessment.Dimensions {
		want = append(want, Segment{
			Dimension: d,
			Label:     dimensionLabels[d],
			Score:     scores[i],
			Percent:   pcts[i],
			Color:     dimensionColors[d],
		})
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Breakdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestIsAmbiguous(t *testing.T) {
	tests := []struct {
		name   string
		scores assessment.DimensionalScores
		want   bool
	}{
		{"all midpoint", assessment.DimensionalScores{Anxiety: 3, Avoidance: 3, Disorganized: 3}, true},
		{"edges of band", assessment.DimensionalScores{Anxiety: 2.5, Avoidance: 3.5, Disorganized: 3}, true},
		{"one outside", assessment.DimensionalScores{Anxiety: 3, Avoidance: 3.75, Disorganized: 3}, false},
		{"clear profile", assessment.DimensionalScores{Anxiety: 5, Avoidance: 1, Disorganized: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAmbiguous(tt.scores))
		})
	}
}

func TestRender_AnxiousPassive(t *testing.T) {
	r, err := Render(assessment.AttachmentAnxious,
		assessment.DimensionalScores{Anxiety: 5, Avoidance: 1, Disorganized: 1},
		assessment.CommunicationPassive)
	require.NoError(t, err)

	assert.Equal(t, "A", r.DominantType)
	assert.Equal(t, "Anxious Attachment", r.Label)
	assert.NotEmpty(t, r.Strengths)
	assert.Equal(t, "Passive", r.CommunicationLabel)
	assert.Equal(t, pairedTips[assessment.AttachmentAnxious][assessment.CommunicationPassive], r.Tip)
	assert.False(t, r.OfferEnhancedAssessment)
}

func TestRender_WithoutCommunication(t *testing.T) {
	r, err := Render(assessment.AttachmentSecure,
		assessment.DimensionalScores{Anxiety: 1, Avoidance: 1, Disorganized: 1}, "")
	require.NoError(t, err)

	assert.Empty(t, r.CommunicationLabel)
	assert.Equal(t, attachmentTable[assessment.AttachmentSecure].Tip, r.Tip)
}

func TestRender_AmbiguousOffersEnhancedAssessment(t *testing.T) {
	r, err := Render(assessment.AttachmentSecure,
		assessment.DimensionalScores{Anxiety: 2.75, Avoidance: 2.75, Disorganized: 3},
		assessment.CommunicationAssertive)
	require.NoError(t, err)
	assert.True(t, r.OfferEnhancedAssessment)
	assert.Contains(t, r.Markdown(), "enhanced assessment")
}

func TestRender_UnknownStyle(t *testing.T) {
	_, err := Render("clingy", assessment.DimensionalScores{}, "")
	assert.Error(t, err)

	_, err = Render(assessment.AttachmentSecure, assessment.DimensionalScores{}, "shouty")
	assert.Error(t, err)
}

func TestRender_StrengthsAreCopied(t *testing.T) {
	r, err := Render(assessment.AttachmentAvoidant, assessment.DimensionalScores{Avoidance: 4}, "")
	require.NoError(t, err)
	r.Strengths[0] = "mutated"
	assert.NotEqual(t, "mutated", attachmentTable[assessment.AttachmentAvoidant].Strengths[0])
}

func TestMarkdown_Sections(t *testing.T) {
	r, err := Render(assessment.AttachmentDisorganized,
		assessment.DimensionalScores{Anxiety: 4, Avoidance: 4, Disorganized: 4.5},
		assessment.CommunicationAggressive)
	require.NoError(t, err)

	md := r.Markdown()
	for _, want := range []string{"Fearful-Avoidant", "type D", "## Breakdown", "## Strengths", "Communication Style: Aggressive", "## Tip"} {
		assert.True(t, strings.Contains(md, want), "markdown missing %q", want)
	}
}

func TestBar_Bounds(t *testing.T) {
	assert.Equal(t, 20, len([]rune(bar(0))))
	assert.Equal(t, 20, len([]rune(bar(100))))
	assert.Equal(t, 20, len([]rune(bar(250))))
}
