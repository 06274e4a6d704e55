package intervention

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/kv"
)

// Key layout under the anti_frustration namespace.
const (
	recordKeyPrefix = "anti_frustration:"
	logKeySuffix    = "log:"
)

// Decision log retention.
const (
	logCap = 50
	logTTL = time.Hour
)

// CombatContext is the combat-side situation passed by the orchestrator when
// it triggers an intervention.
type CombatContext struct {
	DeathStreak int    `json:"deathStreak"`
	InCombat    bool   `json:"inCombat"`
	EnemyType   string `json:"enemyType,omitempty"`
}

// Record is one persisted intervention effect. The store's TTL is a coarse
// bound; exact liveness is always re-derived from ActivatedAt+Duration, since
// store expiry has second granularity and durations are in milliseconds.
type Record struct {
	Type        string         `json:"type"`
	Config      map[string]any `json:"config"`
	ActivatedAt int64          `json:"activatedAt"`
	Duration    int64          `json:"duration,omitempty"`
}

// Outcome is the result of one activation. Visible carries what the player is
// told about; Hidden carries the silent balance adjustments. Per-effect
// persistence failures land in Errors without aborting sibling effects.
type Outcome struct {
	Activated bool `json:"activated"`
	// DecisionID keys this activation's decision-log row for analytics
	// follow-up.
	DecisionID string   `json:"decisionId,omitempty"`
	Level      Tier     `json:"level,omitempty"`
	Visible    []string `json:"interventions,omitempty"`
	Hidden     []string `json:"-"`
	Errors     []string `json:"errors,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// StatusEntry describes one currently-active effect.
type StatusEntry struct {
	Type          string         `json:"type"`
	Config        map[string]any `json:"config"`
	ActivatedAt   int64          `json:"activatedAt"`
	Duration      int64          `json:"duration,omitempty"`
	TimeRemaining int64          `json:"timeRemaining"`
}

// logEntry is one appended decision-log row, consumed only by analytics.
type logEntry struct {
	ID                string   `json:"id"`
	FrustrationLevel  float64  `json:"frustrationLevel"`
	InterventionLevel Tier     `json:"interventionLevel"`
	Interventions     []string `json:"interventions"`
	PlayerState       string   `json:"playerState"`
	Timestamp         int64    `json:"timestamp"`
}

// Engine selects and persists compensating game-balance effects for
// frustrated players. There is no cross-call locking: two concurrent
// activations for one session may double-apply an effect, which is tolerated
// since every effect is a cosmetic or balance nudge.
type Engine struct {
	kv kv.Store

	// now is overridable in tests.
	now func() time.Time
}

// NewEngine builds an Engine over a key-value backend.
func NewEngine(store kv.Store) *Engine {
	return &Engine{kv: store, now: time.Now}
}

func recordKey(sessionID, effectType string) string {
	return recordKeyPrefix + effectType + ":" + sessionID
}

func logKey(sessionID string) string {
	return recordKeyPrefix + logKeySuffix + sessionID
}

// Activate maps a frustration level to a severity tier, selects the tier's
// effect set minus already-active effects (the critical checkpoint always
// fires), persists each effect under its own TTL, and logs the decision.
//
// Failures never propagate: a broken store yields {Activated:false, Error},
// and a single effect's write failure is collected while its siblings apply.
// The player simply receives less compensation, never an interruption.
func (e *Engine) Activate(ctx context.Context, sessionID string, frustrationLevel float64, playerState string, cc CombatContext) Outcome {
	tier := TierFor(frustrationLevel)
	if tier == TierNone {
		return Outcome{Activated: false, Level: TierNone}
	}

	active, err := e.activeEffects(ctx, sessionID)
	if err != nil {
		log.Printf("[intervention] %s: reading active effects: %v", sessionID, err)
		return Outcome{Activated: false, Error: fmt.Sprintf("reading active effects: %v", err)}
	}

	outcome := Outcome{Activated: true, Level: tier, DecisionID: uuid.New().String()}
	var applied []string

	for _, c := range selectCandidates(tier, cc) {
		if active[c.effectType] && !c.forced {
			continue
		}
		if err := e.apply(ctx, sessionID, c); err != nil {
			log.Printf("[intervention] %s: applying %s: %v", sessionID, c.effectType, err)
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", c.effectType, err))
			continue
		}
		applied = append(applied, c.effectType)
		if specFor(c.effectType).visible {
			outcome.Visible = append(outcome.Visible, c.effectType)
		} else {
			outcome.Hidden = append(outcome.Hidden, c.effectType)
		}
	}

	if err := e.appendLog(ctx, sessionID, logEntry{
		ID:                outcome.DecisionID,
		FrustrationLevel:  frustrationLevel,
		InterventionLevel: tier,
		Interventions:     applied,
		PlayerState:       playerState,
		Timestamp:         e.now().UnixMilli(),
	}); err != nil {
		// Analytics-only data; losing a row never fails the activation.
		log.Printf("[intervention] %s: appending decision log: %v", sessionID, err)
	}

	return outcome
}

// apply persists one effect record with a TTL matching its duration, rounded
// up to whole seconds. Effects without natural decay get the fixed long TTL.
func (e *Engine) apply(ctx context.Context, sessionID string, c candidate) error {
	rec := Record{
		Type:        c.effectType,
		Config:      c.config,
		ActivatedAt: e.now().UnixMilli(),
	}

	ttl := checkpointTTL
	if c.duration > 0 {
		rec.Duration = c.duration.Milliseconds()
		ttl = c.duration
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return e.kv.Put(ctx, recordKey(sessionID, c.effectType), raw, ttl)
}

// activeEffects reports which effect types currently have a live record.
func (e *Engine) activeEffects(ctx context.Context, sessionID string) (map[string]bool, error) {
	active := make(map[string]bool, len(catalog))
	for effectType := range catalog {
		on, err := e.IsActive(ctx, sessionID, effectType)
		if err != nil {
			return nil, err
		}
		if on {
			active[effectType] = true
		}
	}
	return active, nil
}

// IsActive reports whether an effect is live. A record whose logical duration
// has elapsed is deleted and reported inactive even if the store's coarser
// TTL has not reclaimed it yet.
func (e *Engine) IsActive(ctx context.Context, sessionID, effectType string) (bool, error) {
	rec, err := e.getRecord(ctx, sessionID, effectType)
	if err == kv.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if rec.Duration > 0 && e.now().UnixMilli()-rec.ActivatedAt > rec.Duration {
		if err := e.kv.Delete(ctx, recordKey(sessionID, effectType)); err != nil {
			log.Printf("[intervention] %s: deleting stale %s: %v", sessionID, effectType, err)
		}
		return false, nil
	}
	return true, nil
}

func (e *Engine) getRecord(ctx context.Context, sessionID, effectType string) (Record, error) {
	raw, err := e.kv.Get(ctx, recordKey(sessionID, effectType))
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Status returns every live effect for a session with its remaining time
// (clamped to zero; no-decay effects report -1).
func (e *Engine) Status(ctx context.Context, sessionID string) ([]StatusEntry, error) {
	nowMs := e.now().UnixMilli()
	var out []StatusEntry

	for effectType := range catalog {
		rec, err := e.getRecord(ctx, sessionID, effectType)
		if err == kv.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}

		entry := StatusEntry{
			Type:          rec.Type,
			Config:        rec.Config,
			ActivatedAt:   rec.ActivatedAt,
			Duration:      rec.Duration,
			TimeRemaining: -1,
		}
		if rec.Duration > 0 {
			remaining := rec.Duration - (nowMs - rec.ActivatedAt)
			if remaining <= 0 {
				// Logically dead; Status mirrors IsActive's verdict.
				continue
			}
			entry.TimeRemaining = remaining
		}
		out = append(out, entry)
	}
	return out, nil
}

func (e *Engine) appendLog(ctx context.Context, sessionID string, entry logEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return e.kv.PushCapped(ctx, logKey(sessionID), raw, logCap, logTTL)
}
