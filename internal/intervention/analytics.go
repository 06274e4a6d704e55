package intervention

import (
	"context"
	"encoding/json"
)

// Analytics is a descriptive summary of a session's decision log. Nothing in
// the control path consumes it.
type Analytics struct {
	TotalActivations     int            `json:"totalActivations"`
	AverageFrustration   float64        `json:"averageFrustration"`
	EffectCounts         map[string]int `json:"effectCounts"`
	TierCounts           map[Tier]int   `json:"tierCounts"`
	ActivationsPerMinute float64        `json:"activationsPerMinute"`
	MostCommonTier       Tier           `json:"mostCommonTier"`
}

// SessionAnalytics aggregates the capped decision log for one session.
// An empty or expired log yields a zero summary, not an error.
func (e *Engine) SessionAnalytics(ctx context.Context, sessionID string) (Analytics, error) {
	raws, err := e.kv.ReadList(ctx, logKey(sessionID))
	if err != nil {
		return Analytics{}, err
	}

	out := Analytics{
		EffectCounts:   map[string]int{},
		TierCounts:     map[Tier]int{},
		MostCommonTier: TierNone,
	}

	var frustrationSum float64
	var firstTs, lastTs int64

	for _, raw := range raws {
		var entry logEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}

		out.TotalActivations++
		frustrationSum += entry.FrustrationLevel
		out.TierCounts[entry.InterventionLevel]++
		for _, effectType := range entry.Interventions {
			out.EffectCounts[effectType]++
		}

		if firstTs == 0 || entry.Timestamp < firstTs {
			firstTs = entry.Timestamp
		}
		if entry.Timestamp > lastTs {
			lastTs = entry.Timestamp
		}
	}

	if out.TotalActivations == 0 {
		return out, nil
	}

	out.AverageFrustration = frustrationSum / float64(out.TotalActivations)

	if span := lastTs - firstTs; span > 0 {
		out.ActivationsPerMinute = float64(out.TotalActivations) / (float64(span) / 60_000)
	}

	best := 0
	for tier, n := range out.TierCounts {
		if n > best || (n == best && tierRank[tier] > tierRank[out.MostCommonTier]) {
			best = n
			out.MostCommonTier = tier
		}
	}
	return out, nil
}
