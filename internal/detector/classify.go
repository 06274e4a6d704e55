package detector

import "context"

// PlayerState is the coarse affective classification fed to the intervention
// orchestrator.
type PlayerState string

const (
	StateFrustrated PlayerState = "frustrated"
	StateBored      PlayerState = "bored"
	StateEngaged    PlayerState = "engaged"
	StateNeutral    PlayerState = "neutral"
)

// FrustrationScore collapses a frustration bundle into [0,1]. Each indicator
// is normalized against its tuned saturation point, then blended; the weights
// favor the strong signals (death streaks, rapid retries) over soft ones.
func FrustrationScore(b FrustrationBundle) float64 {
	score := 0.0
	score += 0.20 * clamp01(float64(b.RapidRetries)/5)
	score += 0.25 * clamp01(float64(b.DeathStreak)/5)
	score += 0.15 * clamp01(b.InputVariance/3)
	if b.QuickQuitAfterDeath {
		score += 0.10
	}
	score += 0.10 * clamp01(-b.EmotionalScore)
	score += 0.05 * clamp01(b.ActionRegression/2)
	score += 0.05 * clamp01(float64(b.HelpSeeking)/3)
	score += 0.10 * clamp01(b.PerformanceDrop)
	return clamp01(score)
}

// BoredomScore collapses a boredom bundle into [0,1].
func BoredomScore(b BoredomBundle) float64 {
	score := 0.0
	score += 0.20 * clamp01(float64(b.PerfectStreak)/5)
	score += 0.10 * clamp01(b.CompletionSpeed-1)
	score += 0.20 * clamp01(1-b.EngagementScore)
	score += 0.15 * clamp01(float64(b.RepetitiveActions)/6)
	score += 0.10 * clamp01(b.InactivityTime/30)
	score += 0.05 * clamp01(b.ExplorationDecline)
	score += 0.05 * clamp01(b.RiskTaking)
	score += 0.15 * clamp01(b.AttentionDrift)
	return clamp01(score)
}

// Classification is the full per-session detection snapshot.
type Classification struct {
	State            PlayerState       `json:"state"`
	FrustrationScore float64           `json:"frustrationScore"`
	BoredomScore     float64           `json:"boredomScore"`
	Frustration      FrustrationBundle `json:"frustration"`
	Boredom          BoredomBundle     `json:"boredom"`
}

// classify picks the dominant state. Frustration wins ties: compensating a
// frustrated player matters more than varying a bored one.
func classify(f, b float64) PlayerState {
	switch {
	case f >= 0.5 && f >= b:
		return StateFrustrated
	case b >= 0.5:
		return StateBored
	case f < 0.25 && b < 0.25:
		return StateEngaged
	default:
		return StateNeutral
	}
}

// Classify computes both bundles and the dominant affective state.
func (d *Detector) Classify(ctx context.Context, sessionID string) (Classification, error) {
	fb, err := d.FrustrationIndicators(ctx, sessionID)
	if err != nil {
		return Classification{}, err
	}
	bb, err := d.BoredomIndicators(ctx, sessionID)
	if err != nil {
		return Classification{}, err
	}

	fs, bs := FrustrationScore(fb), BoredomScore(bb)

	return Classification{
		State:            classify(fs, bs),
		FrustrationScore: fs,
		BoredomScore:     bs,
		Frustration:      fb,
		Boredom:          bb,
	}, nil
}
