package keyboard

import (
	"context"
	"math"
)

// Pattern is a coarse label for how the user's messages tend to land.
type Pattern string

const (
	PatternNotEnoughData Pattern = "not_enough_data"
	PatternConstructive  Pattern = "constructive"
	PatternMixed         Pattern = "mixed"
	PatternEscalating    Pattern = "escalating"
)

// minInteractionsForPattern is the sample size below which no pattern is claimed.
const minInteractionsForPattern = 10

// IndividualAnalytics is the aggregate summary shown on the dashboard.
type IndividualAnalytics struct {
	TotalInteractions int              `json:"total_interactions"`
	TonePercentages   map[Tone]float64 `json:"tone_percentages"`
	DominantTone      Tone             `json:"dominant_tone,omitempty"`
	AcceptanceRate    float64          `json:"suggestion_acceptance_rate"`
	Pattern           Pattern          `json:"pattern"`
}

// Analytics derives communication summaries from keyboard snapshots.
type Analytics struct {
	bridge Bridge
}

// NewAnalytics creates an Analytics service over the given bridge.
func NewAnalytics(bridge Bridge) *Analytics {
	return &Analytics{bridge: bridge}
}

// GetIndividualAnalytics reads the user's snapshot and summarizes it.
// It returns nil when the keyboard has no recorded interactions.
func (a *Analytics) GetIndividualAnalytics(ctx context.Context, userID string) (*IndividualAnalytics, error) {
	snap, err := a.bridge.GetComprehensiveRealData(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap.Empty() {
		return nil, nil
	}
	return Summarize(snap), nil
}

// Summarize computes percentages against the tone total, not the
// interaction total, since not every interaction is tone-scored.
func Summarize(s *Snapshot) *IndividualAnalytics {
	out := &IndividualAnalytics{
		TotalInteractions: s.TotalInteractions,
		TonePercentages:   make(map[Tone]float64, len(Tones)),
		AcceptanceRate:    Percent(s.SuggestionsAccepted, s.SuggestionsOffered),
	}

	toneTotal := 0
	for _, t := range Tones {
		toneTotal += s.ToneCounts[t]
	}

	best := -1
	for _, t := range Tones {
		n := s.ToneCounts[t]
		out.TonePercentages[t] = Percent(n, toneTotal)
		if n > best && n > 0 {
			best = n
			out.DominantTone = t
		}
	}

	out.Pattern = classifyPattern(s.TotalInteractions, out.TonePercentages)
	return out
}

func classifyPattern(total int, pct map[Tone]float64) Pattern {
	switch {
	case total < minInteractionsForPattern:
		return PatternNotEnoughData
	case pct[ToneAlert] >= 30:
		return PatternEscalating
	case pct[ToneClear] >= 60:
		return PatternConstructive
	default:
		return PatternMixed
	}
}

// Percent returns part/whole as a percentage rounded to one decimal; a zero
// whole yields 0.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
