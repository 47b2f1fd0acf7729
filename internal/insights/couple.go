package insights

import (
	"fmt"

	"github.com/HendryAvila/tether/internal/assessment"
	"github.com/HendryAvila/tether/internal/profile"
)

type stylePair struct {
	a, b assessment.AttachmentStyle
}

// pairInsights is keyed with the styles in either order.
var pairInsights = map[stylePair]string{
	{assessment.AttachmentSecure, assessment.AttachmentSecure}:     "You both tend to trust that conflict can be repaired. Protect that by keeping check-ins regular even when things are calm.",
	{assessment.AttachmentAnxious, assessment.AttachmentAvoidant}:  "One of you reaches for closeness under stress while the other reaches for space. Agree ahead of time on how long a break lasts and how you'll reconnect.",
	{assessment.AttachmentAnxious, assessment.AttachmentAnxious}:   "You both feel distance quickly. Small, predictable reassurances go a long way for each of you.",
	{assessment.AttachmentAvoidant, assessment.AttachmentAvoidant}: "You both value independence. Schedule time to talk about feelings so it doesn't only happen during conflict.",
	{assessment.AttachmentSecure, assessment.AttachmentAnxious}:    "Steady, explicit reassurance from the secure partner helps the anxious partner settle faster after disagreements.",
	{assessment.AttachmentSecure, assessment.AttachmentAvoidant}:   "Respecting the avoidant partner's need for space while naming when you'll reconnect keeps both of you comfortable.",
}

// CoupleInsight returns a one-line observation about the two attachment
// styles, or "" when either side is missing.
func CoupleInsight(self *profile.PersistedProfile, partner *profile.PartnerProfile) string {
	if self == nil || partner == nil || partner.Attachment == "" {
		return ""
	}
	if s, ok := pairInsights[stylePair{self.Attachment, partner.Attachment}]; ok {
		return s
	}
	if s, ok := pairInsights[stylePair{partner.Attachment, self.Attachment}]; ok {
		return s
	}
	return fmt.Sprintf("Your %s style and %s's %s style can pull in different directions under stress. Naming the pattern out loud is the first step.",
		self.Attachment, partner.Name, partner.Attachment)
}
