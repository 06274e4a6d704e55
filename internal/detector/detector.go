package detector

import (
	"context"
	"time"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/telemetry"
)

// Detector computes frustration and boredom indicator bundles from a session's
// telemetry buffers. Both operations are read-only and idempotent given the
// same buffer contents; thin data always degrades to neutral values, never to
// an error.
type Detector struct {
	tel *telemetry.Store
}

// New builds a Detector over a telemetry store.
func New(tel *telemetry.Store) *Detector {
	return &Detector{tel: tel}
}

// FrustrationBundle is the frustration indicator set. It is recomputed on
// demand and never persisted.
type FrustrationBundle struct {
	RapidRetries        int     `json:"rapidRetries"`
	DeathStreak         int     `json:"deathStreak"`
	InputVariance       float64 `json:"inputVariance"`
	QuickQuitAfterDeath bool    `json:"quickQuitAfterDeath"`
	EmotionalScore      float64 `json:"emotionalScore"`
	ActionRegression    float64 `json:"actionRegression"`
	HelpSeeking         int     `json:"helpSeeking"`
	PerformanceDrop     float64 `json:"performanceDrop"`
}

// BoredomBundle is the boredom indicator set, symmetric to FrustrationBundle.
type BoredomBundle struct {
	PerfectStreak      int     `json:"perfectStreak"`
	CompletionSpeed    float64 `json:"completionSpeed"`
	EngagementScore    float64 `json:"engagementScore"`
	RepetitiveActions  int     `json:"repetitiveActions"`
	InactivityTime     float64 `json:"inactivityTime"`
	ExplorationDecline float64 `json:"explorationDecline"`
	RiskTaking         float64 `json:"riskTaking"`
	AttentionDrift     float64 `json:"attentionDrift"`
}

// FrustrationIndicators computes the frustration bundle for a session.
func (d *Detector) FrustrationIndicators(ctx context.Context, sessionID string) (FrustrationBundle, error) {
	actions, err := d.tel.Actions(ctx, sessionID)
	if err != nil {
		return FrustrationBundle{}, err
	}
	inputs, err := d.tel.Inputs(ctx, sessionID)
	if err != nil {
		return FrustrationBundle{}, err
	}
	combats, err := d.tel.Combats(ctx, sessionID)
	if err != nil {
		return FrustrationBundle{}, err
	}

	now := time.Now().UnixMilli()

	b := FrustrationBundle{
		RapidRetries:        rapidRetries(actions, now),
		DeathStreak:         deathStreak(combats),
		InputVariance:       inputVariance(inputs, now),
		QuickQuitAfterDeath: quickQuitAfterDeath(actions),
		ActionRegression:    actionRegression(actions, now),
		HelpSeeking:         helpSeeking(actions, now),
		PerformanceDrop:     performanceDrop(combats),
	}
	b.EmotionalScore = emotionalScore(b.RapidRetries, b.DeathStreak, b.InputVariance)
	return b, nil
}

// BoredomIndicators computes the boredom bundle for a session.
func (d *Detector) BoredomIndicators(ctx context.Context, sessionID string) (BoredomBundle, error) {
	actions, err := d.tel.Actions(ctx, sessionID)
	if err != nil {
		return BoredomBundle{}, err
	}
	inputs, err := d.tel.Inputs(ctx, sessionID)
	if err != nil {
		return BoredomBundle{}, err
	}
	combats, err := d.tel.Combats(ctx, sessionID)
	if err != nil {
		return BoredomBundle{}, err
	}

	now := time.Now().UnixMilli()

	return BoredomBundle{
		PerfectStreak:      perfectStreak(combats),
		CompletionSpeed:    completionSpeed(combats),
		EngagementScore:    engagementScore(inputs, now),
		RepetitiveActions:  repetitiveActions(actions, now),
		InactivityTime:     inactivityTime(inputs, now),
		ExplorationDecline: explorationDecline(actions, now),
		RiskTaking:         riskTaking(actions, now),
		AttentionDrift:     attentionDrift(inputs, now),
	}, nil
}
