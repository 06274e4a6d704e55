package detector

import (
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/telemetry"
)

// inactivityGapMs is the minimum inter-input gap counted as idle time.
const inactivityGapMs = 5_000

// riskyThreshold marks an action as deliberate risk-taking.
const riskyThreshold = 0.7

// perfectStreak counts consecutive flawless, faster-than-average victories
// scanning backward from the most recent combat.
func perfectStreak(combats []telemetry.CombatResult) int {
	streak := 0
	for i := len(combats) - 1; i >= 0; i-- {
		c := combats[i]
		flawless := c.Result == telemetry.ResultVictory && c.HealthLost == 0
		fast := c.AverageTime == 0 || c.TimeToComplete < c.AverageTime
		if !flawless || !fast {
			break
		}
		streak++
	}
	return streak
}

// completionSpeed is the ratio of earlier average completion time to the
// last-5 average: above 1.0 means the player has recently sped up. Neutral
// 1.0 below 10 total combats.
func completionSpeed(combats []telemetry.CombatResult) float64 {
	if len(combats) < 10 {
		return 1.0
	}

	split := len(combats) - 5
	var recent, earlier []float64
	for i, c := range combats {
		if c.TimeToComplete <= 0 {
			continue
		}
		if i >= split {
			recent = append(recent, c.TimeToComplete)
		} else {
			earlier = append(earlier, c.TimeToComplete)
		}
	}

	r, e := mean(recent), mean(earlier)
	if r == 0 || e == 0 {
		return 1.0
	}
	return e / r
}

// engagementScore blends input frequency (0.4), input-type variety (0.3) and
// response-time consistency (0.3) over the last 120s into [0,1]. Low values
// mean the player is checked out. Neutral 0.5 below 5 inputs.
func engagementScore(inputs []telemetry.InputEvent, now int64) float64 {
	cutoff := now - midWindowMs
	var recent []telemetry.InputEvent
	for _, in := range inputs {
		if in.Timestamp >= cutoff {
			recent = append(recent, in)
		}
	}
	if len(recent) < 5 {
		return 0.5
	}

	// One input per second reads as fully engaged.
	freq := clamp01(float64(len(recent)) / (midWindowMs / 1000.0))

	types := map[string]bool{}
	for _, in := range recent {
		types[in.Type] = true
	}
	variety := clamp01(float64(len(types)) / 4)

	var rts []float64
	for _, in := range recent {
		if in.ResponseTime > 0 {
			rts = append(rts, in.ResponseTime)
		}
	}
	consistency := 0.5
	if len(rts) >= 3 {
		consistency = clamp01(1 - coefficientOfVariation(rts))
	}

	return 0.4*freq + 0.3*variety + 0.3*consistency
}

// repetitiveActions is the longest run of identical consecutive (type,target)
// pairs within the last 30s of actions.
func repetitiveActions(actions []telemetry.ActionEvent, now int64) int {
	cutoff := now - shortWindowMs
	var recent []telemetry.ActionEvent
	for _, a := range actions {
		if a.Timestamp >= cutoff {
			recent = append(recent, a)
		}
	}
	if len(recent) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(recent); i++ {
		if recent[i].Type == recent[i-1].Type && recent[i].Target == recent[i-1].Target {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// inactivityTime sums inter-input gaps longer than 5s within the last 120s,
// in seconds.
func inactivityTime(inputs []telemetry.InputEvent, now int64) float64 {
	cutoff := now - midWindowMs
	var recent []telemetry.InputEvent
	for _, in := range inputs {
		if in.Timestamp >= cutoff {
			recent = append(recent, in)
		}
	}

	var idleMs int64
	for i := 1; i < len(recent); i++ {
		if gap := recent[i].Timestamp - recent[i-1].Timestamp; gap > inactivityGapMs {
			idleMs += gap
		}
	}
	return float64(idleMs) / 1000
}

// explorationDecline is the fractional drop in explore-action rate between
// the 120-300s-ago window and the last 120s, in [0,1].
func explorationDecline(actions []telemetry.ActionEvent, now int64) float64 {
	recentCutoff := now - midWindowMs
	priorCutoff := now - longWindowMs

	var recentCount, priorCount float64
	for _, a := range actions {
		if a.Type != "explore" {
			continue
		}
		switch {
		case a.Timestamp >= recentCutoff:
			recentCount++
		case a.Timestamp >= priorCutoff:
			priorCount++
		}
	}

	// Rates over unequal window lengths.
	recentRate := recentCount / (midWindowMs / 1000.0)
	priorRate := priorCount / ((longWindowMs - midWindowMs) / 1000.0)
	if priorRate == 0 {
		return 0
	}
	return clamp01((priorRate - recentRate) / priorRate)
}

// riskTaking is the fraction of the last 120s of actions flagged risky.
func riskTaking(actions []telemetry.ActionEvent, now int64) float64 {
	cutoff := now - midWindowMs
	total, risky := 0, 0
	for _, a := range actions {
		if a.Timestamp < cutoff {
			continue
		}
		total++
		if a.RiskLevel >= riskyThreshold {
			risky++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(risky) / float64(total)
}

// attentionDrift blends response-time degradation (0.6) with input-frequency
// decline (0.4) between the first and second half of the 120s window.
// Zero when either half is empty.
func attentionDrift(inputs []telemetry.InputEvent, now int64) float64 {
	cutoff := now - midWindowMs
	half := now - midWindowMs/2

	var firstRTs, secondRTs []float64
	var firstCount, secondCount float64
	for _, in := range inputs {
		if in.Timestamp < cutoff {
			continue
		}
		if in.Timestamp < half {
			firstCount++
			if in.ResponseTime > 0 {
				firstRTs = append(firstRTs, in.ResponseTime)
			}
		} else {
			secondCount++
			if in.ResponseTime > 0 {
				secondRTs = append(secondRTs, in.ResponseTime)
			}
		}
	}
	if firstCount == 0 || secondCount == 0 {
		return 0
	}

	rtDegradation := 0.0
	if f := mean(firstRTs); f > 0 && len(secondRTs) > 0 {
		rtDegradation = clamp01((mean(secondRTs) - f) / f)
	}

	freqDecline := clamp01((firstCount - secondCount) / firstCount)

	return 0.6*rtDegradation + 0.4*freqDecline
}
