// Package assessment scores the relationship questionnaire and classifies
// the respondent into an attachment style and a communication style.
//
// The package is pure: scoring and classification have no side effects,
// and the same ResponseMap always yields the same Result.
package assessment

import "fmt"

// --- Dimensions ---

// Dimension names one axis measured by the questionnaire.
type Dimension string

const (
	DimensionAnxiety      Dimension = "anxiety"
	DimensionAvoidance    Dimension = "avoidance"
	DimensionDisorganized Dimension = "disorganized"
)

// Dimensions lists the scored axes in display order.
var Dimensions = []Dimension{DimensionAnxiety, DimensionAvoidance, DimensionDisorganized}

var validDimensions = map[Dimension]bool{
	DimensionAnxiety:      true,
	DimensionAvoidance:    true,
	DimensionDisorganized: true,
}

// ValidateDimension returns an error if the dimension is not recognized.
func ValidateDimension(d Dimension) error {
	if !validDimensions[d] {
		return fmt.Errorf("invalid dimension %q: must be one of: anxiety, avoidance, disorganized", d)
	}
	return nil
}

// --- Attachment style enum ---

// AttachmentStyle is the discrete attachment classification.
type AttachmentStyle string

const (
	AttachmentAnxious      AttachmentStyle = "anxious"
	AttachmentSecure       AttachmentStyle = "secure"
	AttachmentAvoidant     AttachmentStyle = "avoidant"
	AttachmentDisorganized AttachmentStyle = "disorganized"
)

var validAttachments = map[AttachmentStyle]bool{
	AttachmentAnxious:      true,
	AttachmentSecure:       true,
	AttachmentAvoidant:     true,
	AttachmentDisorganized: true,
}

// ValidateAttachment returns an error if the style is not recognized.
func ValidateAttachment(a AttachmentStyle) error {
	if !validAttachments[a] {
		return fmt.Errorf("invalid attachment style %q: must be one of: anxious, secure, avoidant, disorganized", a)
	}
	return nil
}

// attachmentCodes maps each style to the single-letter dominant type used by
// persisted profiles and the keyboard extension.
var attachmentCodes = map[AttachmentStyle]string{
	AttachmentAnxious:      "A",
	AttachmentSecure:       "B",
	AttachmentAvoidant:     "C",
	AttachmentDisorganized: "D",
}

// Code returns the dominant-type letter for the style, or "" if unknown.
func (a AttachmentStyle) Code() string {
	return attachmentCodes[a]
}

// AttachmentFromCode resolves a dominant-type letter back to its style.
func AttachmentFromCode(code string) (AttachmentStyle, error) {
	for style, c := range attachmentCodes {
		if c == code {
			return style, nil
		}
	}
	return "", fmt.Errorf("unknown dominant type %q: must be one of: A, B, C, D", code)
}

// --- Communication style enum ---

// CommunicationStyle is the discrete communication classification.
type CommunicationStyle string

const (
	CommunicationAssertive         CommunicationStyle = "assertive"
	CommunicationPassive           CommunicationStyle = "passive"
	CommunicationAggressive        CommunicationStyle = "aggressive"
	CommunicationPassiveAggressive CommunicationStyle = "passive_aggressive"
)

var validCommunications = map[CommunicationStyle]bool{
	CommunicationAssertive:         true,
	CommunicationPassive:           true,
	CommunicationAggressive:        true,
	CommunicationPassiveAggressive: true,
}

// ValidateCommunication returns an error if the style is not recognized.
func ValidateCommunication(c CommunicationStyle) error {
	if !validCommunications[c] {
		return fmt.Errorf("invalid communication style %q: must be one of: assertive, passive, aggressive, passive_aggressive", c)
	}
	return nil
}

// --- Core data structures ---

// ResponseMap records the selected option value per question id.
type ResponseMap map[string]int

// Clone returns an independent copy of the map.
func (r ResponseMap) Clone() ResponseMap {
	out := make(ResponseMap, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// DimensionalScores holds the continuous score per dimension, bounded to
// [MinScore, MaxScore].
type DimensionalScores struct {
	Anxiety      float64 `json:"anxiety"`
	Avoidance    float64 `json:"avoidance"`
	Disorganized float64 `json:"disorganized"`
}

// Get returns the score for a dimension (0 for unknown dimensions).
func (s DimensionalScores) Get(d Dimension) float64 {
	switch d {
	case DimensionAnxiety:
		return s.Anxiety
	case DimensionAvoidance:
		return s.Avoidance
	case DimensionDisorganized:
		return s.Disorganized
	}
	return 0
}

// Max returns the highest of the three scores.
func (s DimensionalScores) Max() float64 {
	return max(s.Anxiety, s.Avoidance, s.Disorganized)
}

// Result is the scorer's full output.
type Result struct {
	Scores        DimensionalScores  `json:"scores"`
	Attachment    AttachmentStyle    `json:"attachment_style"`
	Communication CommunicationStyle `json:"communication_style"`
	// Fallback is set when the result is the default substituted for a
	// classification failure.
	Fallback bool `json:"fallback,omitempty"`
}
