package intervention

import "time"

// Tier is an intervention severity level. Tiers strictly nest: every tier's
// effect set includes all lower tiers' effects.
type Tier string

const (
	TierNone     Tier = "none"
	TierMild     Tier = "mild"
	TierModerate Tier = "moderate"
	TierSevere   Tier = "severe"
	TierCritical Tier = "critical"
)

// tierThresholds maps a frustration level to its tier: the highest threshold
// not exceeding the level wins, so 0.6 is already moderate and 0.9 critical.
var tierThresholds = []struct {
	min  float64
	tier Tier
}{
	{0.9, TierCritical},
	{0.8, TierSevere},
	{0.6, TierModerate},
	{0.4, TierMild},
}

// TierFor resolves a frustration level to a tier. Below 0.4 no intervention
// fires.
func TierFor(level float64) Tier {
	for _, t := range tierThresholds {
		if level >= t.min {
			return t.tier
		}
	}
	return TierNone
}

// tierRank orders tiers for additive composition.
var tierRank = map[Tier]int{
	TierNone:     0,
	TierMild:     1,
	TierModerate: 2,
	TierSevere:   3,
	TierCritical: 4,
}

// Effect type names. These double as the key segment under which a record is
// persisted (anti_frustration:{type}:{sessionID}).
const (
	EffectGracePeriod       = "grace_period"
	EffectHealthBoost       = "health_boost"
	EffectDamageReduction   = "damage_reduction"
	EffectHintSystem        = "hint_system"
	EffectCheckpoint        = "checkpoint_creation"
	EffectCooldownReduction = "ability_cooldown_reduction"
	EffectEnemyWeakening    = "enemy_weakening"
)

// effectSpec is the static tuning entry for one effect type.
type effectSpec struct {
	// visible effects are surfaced to the player; hidden ones are silent
	// balance adjustments.
	visible bool
	// duration 0 means no natural decay; such records get checkpointTTL.
	duration time.Duration
	config   map[string]any
}

// checkpointTTL covers effects without a natural duration.
const checkpointTTL = time.Hour

// catalog is the full effect table. Tier selection consumes these configs
// verbatim, overriding individual fields where a tier escalates an effect.
var catalog = map[string]effectSpec{
	EffectGracePeriod: {
		visible:  false,
		duration: 10 * time.Second,
		config:   map[string]any{"invulnerable": true},
	},
	EffectHealthBoost: {
		visible:  true,
		duration: 60 * time.Second,
		config:   map[string]any{"multiplier": 1.5},
	},
	EffectDamageReduction: {
		visible:  false,
		duration: 60 * time.Second,
		config:   map[string]any{"multiplier": 0.7},
	},
	EffectHintSystem: {
		visible:  true,
		duration: 5 * time.Minute,
		config:   map[string]any{"categories": []string{"combat_tips"}, "immediate": false},
	},
	EffectCheckpoint: {
		visible: true,
		config:  map[string]any{},
	},
	EffectCooldownReduction: {
		visible:  false,
		duration: 120 * time.Second,
		config:   map[string]any{"multiplier": 0.6},
	},
	EffectEnemyWeakening: {
		visible:  false,
		duration: 120 * time.Second,
		config:   map[string]any{"health_reduction": 0.25, "ai_simplification": true},
	},
}

// candidate is one effect selected for activation, with any tier overrides
// already applied.
type candidate struct {
	effectType string
	duration   time.Duration
	config     map[string]any
	// forced candidates fire even when the effect is already active.
	forced bool
}

// specFor resolves an effect's catalog entry. A miss is a tier-table/catalog
// mismatch, a programmer error, and must not be swallowed.
func specFor(effectType string) effectSpec {
	spec, ok := catalog[effectType]
	if !ok {
		panic("intervention: unknown effect type " + effectType)
	}
	return spec
}

// baseCandidate copies an effect's catalog entry into a mutable candidate.
func baseCandidate(effectType string) candidate {
	spec := specFor(effectType)
	cfg := make(map[string]any, len(spec.config))
	for k, v := range spec.config {
		cfg[k] = v
	}
	return candidate{effectType: effectType, duration: spec.duration, config: cfg}
}

// tierAdditions lists what each tier contributes on top of all lower tiers.
// The skipActive dedup against already-running effects happens in the engine;
// here only selection conditions (e.g. the grace-period death-streak gate)
// apply.
var tierAdditions = map[Tier]func(cc CombatContext) []candidate{
	TierMild: func(CombatContext) []candidate {
		return []candidate{baseCandidate(EffectHintSystem)}
	},
	TierModerate: func(cc CombatContext) []candidate {
		out := []candidate{baseCandidate(EffectCooldownReduction)}
		if cc.DeathStreak >= 2 {
			out = append(out, baseCandidate(EffectGracePeriod))
		}
		return out
	},
	TierSevere: func(CombatContext) []candidate {
		hints := baseCandidate(EffectHintSystem)
		hints.config["categories"] = []string{"weakness_reveals", "strategy_hints"}
		hints.config["immediate"] = true

		return []candidate{
			baseCandidate(EffectHealthBoost),
			baseCandidate(EffectDamageReduction),
			hints,
		}
	},
	TierCritical: func(CombatContext) []candidate {
		grace := baseCandidate(EffectGracePeriod)
		grace.duration = 30 * time.Second

		weaken := baseCandidate(EffectEnemyWeakening)
		weaken.config["health_reduction"] = 0.4

		checkpoint := baseCandidate(EffectCheckpoint)
		checkpoint.forced = true

		return []candidate{grace, weaken, checkpoint}
	},
}

// selectCandidates composes the effect set for a tier: its own additions plus
// every lower tier's, deduplicated by type with the higher tier's version
// winning (the severe hint batch replaces the mild one).
func selectCandidates(tier Tier, cc CombatContext) []candidate {
	rank := tierRank[tier]
	byType := map[string]int{}
	var out []candidate

	for _, t := range []Tier{TierMild, TierModerate, TierSevere, TierCritical} {
		if tierRank[t] > rank {
			break
		}
		for _, c := range tierAdditions[t](cc) {
			if i, seen := byType[c.effectType]; seen {
				out[i] = c
				continue
			}
			byType[c.effectType] = len(out)
			out = append(out, c)
		}
	}
	return out
}
