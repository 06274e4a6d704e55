package telemetry

import (
	"context"
	"fmt"
	"testing"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/kv"
)

func TestRecordAction_StampsServerTimestamp(t *testing.T) {
	st := NewStore(kv.NewMemory())
	ctx := context.Background()

	if err := st.RecordAction(ctx, "s1", ActionEvent{Type: "attack"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := st.Actions(ctx, "s1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 action, got %d", len(got))
	}
	if got[0].Timestamp == 0 {
		t.Fatal("timestamp was not assigned")
	}
}

func TestRecordAction_AssignsEventID(t *testing.T) {
	st := NewStore(kv.NewMemory())
	ctx := context.Background()

	_ = st.RecordAction(ctx, "s1", ActionEvent{Type: "attack"})
	_ = st.RecordAction(ctx, "s1", ActionEvent{Type: "attack"})

	got, err := st.Actions(ctx, "s1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got[0].ID == "" || got[1].ID == "" {
		t.Fatal("event ID was not assigned")
	}
	if got[0].ID == got[1].ID {
		t.Fatalf("event IDs collide: %s", got[0].ID)
	}
}

func TestRecordCombat_KeepsCallerEventID(t *testing.T) {
	st := NewStore(kv.NewMemory())
	ctx := context.Background()

	_ = st.RecordCombat(ctx, "s1", CombatResult{ID: "replay-7", Result: ResultDeath})

	got, _ := st.Combats(ctx, "s1")
	if got[0].ID != "replay-7" {
		t.Fatalf("event ID rewritten: %s", got[0].ID)
	}
}

func TestRecordAction_KeepsCallerTimestamp(t *testing.T) {
	st := NewStore(kv.NewMemory())
	ctx := context.Background()

	if err := st.RecordAction(ctx, "s1", ActionEvent{Type: "retry", Timestamp: 12345}); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, _ := st.Actions(ctx, "s1")
	if got[0].Timestamp != 12345 {
		t.Fatalf("timestamp rewritten: %d", got[0].Timestamp)
	}
}

func TestBuffers_PreserveInsertionOrder(t *testing.T) {
	st := NewStore(kv.NewMemory())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ev := ActionEvent{Type: fmt.Sprintf("a%d", i), Timestamp: int64(i + 1)}
		if err := st.RecordAction(ctx, "s1", ev); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	got, _ := st.Actions(ctx, "s1")
	for i := range got {
		if got[i].Type != fmt.Sprintf("a%d", i) {
			t.Fatalf("order broken at %d: %s", i, got[i].Type)
		}
	}
}

func TestCombatBuffer_TrimsOldestAtCap(t *testing.T) {
	st := NewStore(kv.NewMemory())
	ctx := context.Background()

	for i := 0; i < combatCap+10; i++ {
		ev := CombatResult{Result: ResultVictory, Timestamp: int64(i + 1)}
		if err := st.RecordCombat(ctx, "s1", ev); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	got, _ := st.Combats(ctx, "s1")
	if len(got) != combatCap {
		t.Fatalf("expected %d results, got %d", combatCap, len(got))
	}
	// Oldest 10 dropped, so the first surviving timestamp is 11.
	if got[0].Timestamp != 11 {
		t.Fatalf("expected oldest-first trim, first ts %d", got[0].Timestamp)
	}
}

func TestBuffers_AreKeyedPerSessionAndKind(t *testing.T) {
	st := NewStore(kv.NewMemory())
	ctx := context.Background()

	_ = st.RecordAction(ctx, "s1", ActionEvent{Type: "attack", Timestamp: 1})
	_ = st.RecordInput(ctx, "s1", InputEvent{Type: "click", Timestamp: 2})
	_ = st.RecordAction(ctx, "s2", ActionEvent{Type: "quit", Timestamp: 3})

	a1, _ := st.Actions(ctx, "s1")
	i1, _ := st.Inputs(ctx, "s1")
	a2, _ := st.Actions(ctx, "s2")
	c2, _ := st.Combats(ctx, "s2")

	if len(a1) != 1 || len(i1) != 1 || len(a2) != 1 {
		t.Fatalf("unexpected buffer sizes: %d %d %d", len(a1), len(i1), len(a2))
	}
	if len(c2) != 0 {
		t.Fatalf("expected empty combat buffer, got %d", len(c2))
	}
}
