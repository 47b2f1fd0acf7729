// Package results turns a classified assessment into display-ready content:
// a proportional chart breakdown and the ordered text for the results view.
package results

import (
	"fmt"
	"math"

	"github.com/HendryAvila/tether/internal/assessment"
)

// AmbiguityBand is how close to the midpoint every dimension must be for a
// profile to count as ambiguous.
const AmbiguityBand = 0.5

const enhancedAssessmentMessage = "Your answers sit close to the middle on every dimension, so this result is a tentative read. " +
	"Take the enhanced assessment for a more confident profile."

// Segment is one slice of the dimensional chart.
type Segment struct {
	Dimension assessment.Dimension `json:"dimension"`
	Label     string               `json:"label"`
	Score     float64              `json:"score"`
	Percent   float64              `json:"percent"`
	Color     string               `json:"color"`
}

// Report is the rendered results view.
type Report struct {
	Attachment   assessment.AttachmentStyle `json:"attachment_style"`
	DominantType string                     `json:"dominant_type"`
	Label        string                     `json:"label"`
	Description  string                     `json:"description"`
	Strengths    []string                   `json:"strengths"`
	Color        string                     `json:"color"`
	Segments     []Segment                  `json:"segments"`

	Communication            assessment.CommunicationStyle `json:"communication_style,omitempty"`
	CommunicationLabel       string                        `json:"communication_label,omitempty"`
	CommunicationDescription string                        `json:"communication_description,omitempty"`
	CommunicationTips        []string                      `json:"communication_tips,omitempty"`

	Tip                     string `json:"tip"`
	OfferEnhancedAssessment bool   `json:"offer_enhanced_assessment"`
	EnhancedMessage         string `json:"enhanced_message,omitempty"`
}

// Render builds the report. communication may be empty.
func Render(a assessment.AttachmentStyle, scores assessment.DimensionalScores, communication assessment.CommunicationStyle) (*Report, error) {
	info, ok := Attachment(a)
	if !ok {
		return nil, fmt.Errorf("no display content for attachment style %q", a)
	}

	r := &Report{
		Attachment:   a,
		DominantType: a.Code(),
		Label:        info.Label,
		Description:  info.Description,
		Strengths:    append([]string(nil), info.Strengths...),
		Color:        info.Color,
		Segments:     Breakdown(scores),
		Tip:          info.Tip,
	}

	if communication != "" {
		ci, ok := Communication(communication)
		if !ok {
			return nil, fmt.Errorf("no display content for communication style %q", communication)
		}
		r.Communication = communication
		r.CommunicationLabel = ci.Label
		r.CommunicationDescription = ci.Description
		r.CommunicationTips = append([]string(nil), ci.Tips...)
		if tip, ok := pairedTips[a][communication]; ok {
			r.Tip = tip
		}
	}

	if IsAmbiguous(scores) {
		r.OfferEnhancedAssessment = true
		r.EnhancedMessage = enhancedAssessmentMessage
	}
	return r, nil
}

// Breakdown splits the scores into proportional chart segments. Percentages
// are rounded to one decimal; an all-zero profile splits evenly.
func Breakdown(scores assessment.DimensionalScores) []Segment {
	total := 0.0
	for _, d := range assessment.Dimensions {
		total += scores.Get(d)
	}

	segments := make([]Segment, 0, len(assessment.Dimensions))
	for _, d := range assessment.Dimensions {
		pct := 100.0 / float64(len(assessment.Dimensions))
		if total > 0 {
			pct = scores.Get(d) / total * 100
		}
		segments = append(segments, Segment{
			Dimension: d,
			Label:     dimensionLabels[d],
			Score:     scores.Get(d),
			Percent:   round1(pct),
			Color:     dimensionColors[d],
		})
	}
	return segments
}

// IsAmbiguous reports whether every dimension is within AmbiguityBand of the
// scale midpoint.
func IsAmbiguous(scores assessment.DimensionalScores) bool {
	for _, d := range assessment.Dimensions {
		if math.Abs(scores.Get(d)-assessment.Midpoint) > AmbiguityBand {
			return false
		}
	}
	return true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
