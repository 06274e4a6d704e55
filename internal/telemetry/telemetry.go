package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/kv"
)

// bufferTTL is how long an idle session's telemetry survives. Every append
// resets it, so only abandoned sessions age out.
const bufferTTL = time.Hour

// Store holds per-session telemetry ring buffers: actions, raw inputs and
// combat results. Buffers are append-only and strictly timestamp-ordered by
// insertion; each event kind lives under its own key, so concurrent writers to
// one session never clobber each other across kinds.
type Store struct {
	kv kv.Store
}

// NewStore wraps a key-value backend.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// nowMillis is the server clock used to stamp events that arrive without one.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// RecordAction appends a discrete gameplay action to the session's buffer.
func (s *Store) RecordAction(ctx context.Context, sessionID string, ev ActionEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = nowMillis()
	}
	return s.push(ctx, keyActions+sessionID, ev, actionCap)
}

// RecordInput appends a raw input sample to the session's buffer.
func (s *Store) RecordInput(ctx context.Context, sessionID string, ev InputEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = nowMillis()
	}
	return s.push(ctx, keyInputs+sessionID, ev, inputCap)
}

// RecordCombat appends a combat encounter result to the session's buffer.
func (s *Store) RecordCombat(ctx context.Context, sessionID string, ev CombatResult) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = nowMillis()
	}
	return s.push(ctx, keyCombat+sessionID, ev, combatCap)
}

func (s *Store) push(ctx context.Context, key string, ev any, cap int) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.kv.PushCapped(ctx, key, raw, cap, bufferTTL)
}

// Actions returns the session's action buffer in insertion order.
// Missing buffers read as empty, never as an error.
func (s *Store) Actions(ctx context.Context, sessionID string) ([]ActionEvent, error) {
	raws, err := s.kv.ReadList(ctx, keyActions+sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]ActionEvent, 0, len(raws))
	for _, raw := range raws {
		var ev ActionEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// Inputs returns the session's raw input buffer in insertion order.
func (s *Store) Inputs(ctx context.Context, sessionID string) ([]InputEvent, error) {
	raws, err := s.kv.ReadList(ctx, keyInputs+sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]InputEvent, 0, len(raws))
	for _, raw := range raws {
		var ev InputEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// Combats returns the session's combat result buffer in insertion order.
func (s *Store) Combats(ctx context.Context, sessionID string) ([]CombatResult, error) {
	raws, err := s.kv.ReadList(ctx, keyCombat+sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]CombatResult, 0, len(raws))
	for _, raw := range raws {
		var ev CombatResult
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
