package results

import (
	"fmt"
	"strings"
)

// Markdown formats a report for tool output.
func (r *Report) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s (type %s)\n\n", r.Label, r.DominantType)
	sb.WriteString(r.Description + "\n\n")

	sb.WriteString("## Breakdown\n\n")
	for _, s := range r.Segments {
		fmt.Fprintf(&sb, "- **%s**: %.1f / 5 (%.1f%%) %s\n", s.Label, s.Score, s.Percent, bar(s.Percent))
	}

	sb.WriteString("\n## Strengths\n\n")
	for _, s := range r.Strengths {
		fmt.Fprintf(&sb, "- %s\n", s)
	}

	if r.CommunicationLabel != "" {
		fmt.Fprintf(&sb, "\n## Communication Style: %s\n\n%s\n\n", r.CommunicationLabel, r.CommunicationDescription)
		for _, t := range r.CommunicationTips {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
	}

	fmt.Fprintf(&sb, "\n## Tip\n\n%s\n", r.Tip)

	if r.OfferEnhancedAssessment {
		fmt.Fprintf(&sb, "\n> %s\n", r.EnhancedMessage)
	}
	return sb.String()
}

// bar draws a 20-cell text bar for a percentage.
func bar(pct float64) string {
	filled := int(pct/5 + 0.5)
	filled = min(max(filled, 0), 20)
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}
