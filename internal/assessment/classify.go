package assessment

// Classification thresholds on the 1-5 response scale.
const (
	// ElevatedThreshold marks a dimension as elevated.
	ElevatedThreshold = 3.0
	// DisorganizedThreshold marks the disorganized dimension as dominant on its own.
	DisorganizedThreshold = 3.5
	// IntensityThreshold separates moderate from intense expressions of a style.
	IntensityThreshold = 4.0
)

// InferAttachmentStyle maps dimensional scores to an attachment label.
//
// Order matters: disorganized wins when its own score is high or when both
// anxiety and avoidance are elevated; otherwise anxiety is checked before
// avoidance, and secure is the remainder.
func InferAttachmentStyle(s DimensionalScores) AttachmentStyle {
	switch {
	case s.Disorganized >= DisorganizedThreshold,
		s.Anxiety >= ElevatedThreshold && s.Avoidance >= ElevatedThreshold:
		return AttachmentDisorganized
	case s.Anxiety >= ElevatedThreshold:
		return AttachmentAnxious
	case s.Avoidance >= ElevatedThreshold:
		return AttachmentAvoidant
	default:
		return AttachmentSecure
	}
}

// InferCommunicationStyle combines the attachment label with the intensity
// of the dimension that drove it.
func InferCommunicationStyle(a AttachmentStyle, s DimensionalScores) CommunicationStyle {
	switch a {
	case AttachmentAnxious:
		if s.Anxiety >= IntensityThreshold {
			return CommunicationPassive
		}
		return CommunicationAssertive
	case AttachmentAvoidant:
		if s.Avoidance >= IntensityThreshold {
			return CommunicationPassiveAggressive
		}
		return CommunicationPassive
	case AttachmentDisorganized:
		if s.Max() >= IntensityThreshold {
			return CommunicationAggressive
		}
		return CommunicationPassiveAggressive
	default:
		return CommunicationAssertive
	}
}

// DefaultResult is substituted when responses cannot be classified.
func DefaultResult() Result {
	return Result{
		Scores: DimensionalScores{
			Anxiety:      Midpoint,
			Avoidance:    Midpoint,
			Disorganized: Midpoint,
		},
		Attachment:    AttachmentSecure,
		Communication: CommunicationAssertive,
		Fallback:      true,
	}
}
