package results

import "github.com/HendryAvila/tether/internal/assessment"

// AttachmentInfo is the static display content for an attachment style.
type AttachmentInfo struct {
	Label       string
	Description string
	Strengths   []string
	Tip         string
	Color       string
}

// CommunicationInfo is the static display content for a communication style.
type CommunicationInfo struct {
	Label       string
	Description string
	Tips        []string
}

var attachmentTable = map[assessment.AttachmentStyle]AttachmentInfo{
	assessment.AttachmentAnxious: {
		Label:       "Anxious Attachment",
		Description: "You value closeness deeply and stay highly tuned in to your partner's moods. Uncertainty can feel loud, so reassurance matters to you.",
		Strengths:   []string{"Emotionally attuned", "Deeply committed", "Quick to notice when something is off"},
		Tip:         "When you feel the urge to seek reassurance, name the feeling first and ask for what you need directly.",
		Color:       "#FF6B6B",
	},
	assessment.AttachmentSecure: {
		Label:       "Secure Attachment",
		Description: "You are comfortable with both closeness and independence, and you tend to trust that conflict can be repaired.",
		Strengths:   []string{"Comfortable with intimacy", "Communicates needs openly", "Handles conflict calmly"},
		Tip:         "Keep modelling calm repair after disagreements; it helps your partner feel safe too.",
		Color:       "#4ECDC4",
	},
	assessment.AttachmentAvoidant: {
		Label:       "Dismissive-Avoidant Attachment",
		Description: "You prize self-reliance and may need space when emotions run high. Closeness can feel like pressure before it feels like comfort.",
		Strengths:   []string{"Self-sufficient", "Calm under pressure", "Respects boundaries"},
		Tip:         "When you need space, say so and say when you'll come back. It turns distance into a plan instead of a threat.",
		Color:       "#45B7D1",
	},
	assessment.AttachmentDisorganized: {
		Label:       "Fearful-Avoidant Attachment",
		Description: "You want closeness and fear it at the same time, so your reactions can swing between reaching out and pulling back.",
		Strengths:   []string{"Deep empathy", "Highly self-aware when calm", "Resilient"},
		Tip:         "Notice the moment you swing from reaching out to pulling away, and pause before acting on it.",
		Color:       "#96CEB4",
	},
}

var communicationTable = map[assessment.CommunicationStyle]CommunicationInfo{
	assessment.CommunicationAssertive: {
		Label:       "Assertive",
		Description: "You express needs clearly and respectfully while staying open to your partner's view.",
		Tips:        []string{"Keep using \"I\" statements", "Check that your partner felt heard"},
	},
	assessment.CommunicationPassive: {
		Label:       "Passive",
		Description: "You often put your partner's needs first and may hold back your own to keep the peace.",
		Tips:        []string{"Share one small preference each day", "Practice saying no to low-stakes requests"},
	},
	assessment.CommunicationAggressive: {
		Label:       "Aggressive",
		Description: "Strong feelings can come out as blame or intensity that makes your partner defensive.",
		Tips:        []string{"Take a short break before responding when heated", "Describe the behaviour, not the person"},
	},
	assessment.CommunicationPassiveAggressive: {
		Label:       "Passive-Aggressive",
		Description: "Frustration tends to come out indirectly, through sarcasm, silence or withdrawal.",
		Tips:        []string{"Name the frustration out loud while it is still small", "Swap hints for direct requests"},
	},
}

// Tips that are more specific than the attachment default.
var pairedTips = map[assessment.AttachmentStyle]map[assessment.CommunicationStyle]string{
	assessment.AttachmentAnxious: {
		assessment.CommunicationPassive: "Your worries can go unspoken. Try sending one clear message about what you need instead of waiting for your partner to guess.",
	},
	assessment.AttachmentAvoidant: {
		assessment.CommunicationPassiveAggressive: "When you feel crowded, say \"I need an hour\" rather than going quiet. Direct distance lands better than silent distance.",
	},
	assessment.AttachmentDisorganized: {
		assessment.CommunicationAggressive:        "When emotions spike, agree on a pause word with your partner and use it before the conversation escalates.",
		assessment.CommunicationPassiveAggressive: "Mixed signals are a sign you're overwhelmed. Tell your partner which part you need: comfort or space.",
	},
}

// dimensionColors gives each chart segment a fixed colour.
var dimensionColors = map[assessment.Dimension]string{
	assessment.DimensionAnxiety:      "#FF6B6B",
	assessment.DimensionAvoidance:    "#45B7D1",
	assessment.DimensionDisorganized: "#96CEB4",
}

var dimensionLabels = map[assessment.Dimension]string{
	assessment.DimensionAnxiety:      "Anxiety",
	assessment.DimensionAvoidance:    "Avoidance",
	assessment.DimensionDisorganized: "Disorganization",
}

// Attachment returns the display info for a style.
func Attachment(a assessment.AttachmentStyle) (AttachmentInfo, bool) {
	info, ok := attachmentTable[a]
	return info, ok
}

// Communication returns the display info for a style.
func Communication(c assessment.CommunicationStyle) (CommunicationInfo, bool) {
	info, ok := communicationTable[c]
	return info, ok
}
