package detector

import (
	"math"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/telemetry"
)

// Thresholds used by the emotional score penalty table.
const (
	retryPenaltyAfter    = 3
	streakPenaltyAfter   = 2
	variancePenaltyAfter = 2.0
)

// quickQuitWindowMs bounds how soon after a death a quit counts as a rage quit.
const quickQuitWindowMs = 10_000

// actionComplexity weighs action sophistication. A sustained drop in mean
// weight means the player has regressed to button-mashing basics.
var actionComplexity = map[string]float64{
	"basic":     1,
	"combo":     3,
	"special":   4,
	"dodge":     2,
	"block":     2,
	"strategic": 5,
}

// helpActions are the action types that signal the player is looking for help.
var helpActions = map[string]bool{
	"check_hints":   true,
	"pause_game":    true,
	"open_menu":     true,
	"view_tutorial": true,
	"request_help":  true,
}

// rapidRetries counts retry actions within the last 30s.
func rapidRetries(actions []telemetry.ActionEvent, now int64) int {
	cutoff := now - shortWindowMs
	count := 0
	for _, a := range actions {
		if a.Type == "retry" && a.Timestamp >= cutoff {
			count++
		}
	}
	return count
}

// deathStreak counts consecutive deaths scanning backward from the most
// recent combat, stopping at the first victory.
func deathStreak(combats []telemetry.CombatResult) int {
	streak := 0
	for i := len(combats) - 1; i >= 0; i-- {
		if combats[i].Result != telemetry.ResultDeath {
			break
		}
		streak++
	}
	return streak
}

// inputVariance is a composite erraticism score over the last 30s of inputs:
// timing coefficient-of-variation + click spam + movement-distance variance.
// The three terms sum unnormalized, so the scale is unbounded above and is
// only meaningful relative to tuned thresholds, not as an absolute value.
// Fewer than 5 inputs in the window returns the neutral 1.0.
func inputVariance(inputs []telemetry.InputEvent, now int64) float64 {
	cutoff := now - shortWindowMs
	var recent []telemetry.InputEvent
	for _, in := range inputs {
		if in.Timestamp >= cutoff {
			recent = append(recent, in)
		}
	}
	if len(recent) < 5 {
		return 1.0
	}

	// Timing erraticism: CV of inter-arrival gaps.
	gaps := make([]float64, 0, len(recent)-1)
	for i := 1; i < len(recent); i++ {
		gaps = append(gaps, float64(recent[i].Timestamp-recent[i-1].Timestamp))
	}
	timing := coefficientOfVariation(gaps)

	// Click spam: rate above 10 clicks/s, scaled by the same baseline.
	clicks := 0
	for _, in := range recent {
		if in.Type == "click" {
			clicks++
		}
	}
	clickRate := float64(clicks) / (shortWindowMs / 1000.0)
	spam := math.Max(0, (clickRate-10)/10)

	// Movement erraticism: variance of per-event travel distance.
	var distances []float64
	for _, in := range recent {
		if in.Type == "movement" && in.Data != nil {
			d := math.Hypot(in.Data.DeltaX, in.Data.DeltaY)
			distances = append(distances, d)
		}
	}
	movement := variance(distances) / 100

	return timing + spam + movement
}

// quickQuitAfterDeath reports whether any quit/leave action happened within
// 10s of the death nearest preceding it, scanning backward.
func quickQuitAfterDeath(actions []telemetry.ActionEvent) bool {
	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]
		if a.Type != "quit" && a.Type != "leave" {
			continue
		}
		// Nearest preceding death for this quit.
		for j := i - 1; j >= 0; j-- {
			if actions[j].Type == "death" {
				if a.Timestamp-actions[j].Timestamp < quickQuitWindowMs {
					return true
				}
				break
			}
		}
	}
	return false
}

// emotionalScore is a bounded proxy in [-1, 0] accumulated from penalty rules
// over the other frustration indicators.
func emotionalScore(retries, streak int, inputVar float64) float64 {
	score := 0.0
	if retries > retryPenaltyAfter {
		score -= 0.3
	}
	if streak > streakPenaltyAfter {
		score -= 0.4
	}
	if inputVar > variancePenaltyAfter {
		score -= 0.3
	}
	return math.Max(score, -1)
}

// complexityWeight looks up an action's complexity, trying the subtype first.
func complexityWeight(a telemetry.ActionEvent) float64 {
	if w, ok := actionComplexity[a.Subtype]; ok {
		return w
	}
	if w, ok := actionComplexity[a.Type]; ok {
		return w
	}
	return 1
}

// actionRegression is the drop in mean action complexity between the
// 120-300s-ago window and the last 120s. Zero unless both windows hold at
// least 10 actions and recent complexity is actually lower.
func actionRegression(actions []telemetry.ActionEvent, now int64) float64 {
	recentCutoff := now - midWindowMs
	priorCutoff := now - longWindowMs

	var recent, prior []float64
	for _, a := range actions {
		switch {
		case a.Timestamp >= recentCutoff:
			recent = append(recent, complexityWeight(a))
		case a.Timestamp >= priorCutoff:
			prior = append(prior, complexityWeight(a))
		}
	}

	if len(recent) < 10 || len(prior) < 10 {
		return 0
	}

	drop := mean(prior) - mean(recent)
	if drop <= 0 {
		return 0
	}
	return drop
}

// helpSeeking counts help-related actions in the last 30s.
func helpSeeking(actions []telemetry.ActionEvent, now int64) int {
	cutoff := now - shortWindowMs
	count := 0
	for _, a := range actions {
		if a.Timestamp >= cutoff && helpActions[a.Type] {
			count++
		}
	}
	return count
}

// performanceDrop blends success-rate decline (0.7) with completion-time
// growth (0.3), comparing the last 5 combats against the 10 before them.
// Zero below 10 total combats.
func performanceDrop(combats []telemetry.CombatResult) float64 {
	if len(combats) < 10 {
		return 0
	}

	split := len(combats) - 5
	recent := combats[split:]
	priorStart := split - 10
	if priorStart < 0 {
		priorStart = 0
	}
	prior := combats[priorStart:split]

	winRate := func(cs []telemetry.CombatResult) float64 {
		if len(cs) == 0 {
			return 0
		}
		wins := 0
		for _, c := range cs {
			if c.Result == telemetry.ResultVictory {
				wins++
			}
		}
		return float64(wins) / float64(len(cs))
	}

	avgTime := func(cs []telemetry.CombatResult) float64 {
		var times []float64
		for _, c := range cs {
			times = append(times, c.TimeToComplete)
		}
		return mean(times)
	}

	successDrop := clamp01(winRate(prior) - winRate(recent))

	timeIncrease := 0.0
	if p := avgTime(prior); p > 0 {
		timeIncrease = clamp01((avgTime(recent) - p) / p)
	}

	return 0.7*successDrop + 0.3*timeIncrease
}
