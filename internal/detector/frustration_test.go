package detector

import (
	"context"
	"testing"
	"time"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/kv"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/telemetry"
)

func approx(got, want float64) bool {
	d := got - want
	return d < 1e-9 && d > -1e-9
}

func newTestDetector(t *testing.T) (*Detector, *telemetry.Store) {
	t.Helper()
	tel := telemetry.NewStore(kv.NewMemory())
	return New(tel), tel
}

func seedCombats(t *testing.T, tel *telemetry.Store, session string, results ...telemetry.CombatResult) {
	t.Helper()
	ctx := context.Background()
	for _, r := range results {
		if err := tel.RecordCombat(ctx, session, r); err != nil {
			t.Fatalf("seed combat: %v", err)
		}
	}
}

func TestDeathStreak_StopsAtVictory(t *testing.T) {
	d, tel := newTestDetector(t)
	now := time.Now().UnixMilli()

	// Oldest → newest: V D D D.
	seedCombats(t, tel, "s1",
		telemetry.CombatResult{Result: telemetry.ResultVictory, Timestamp: now - 4000},
		telemetry.CombatResult{Result: telemetry.ResultDeath, Timestamp: now - 3000},
		telemetry.CombatResult{Result: telemetry.ResultDeath, Timestamp: now - 2000},
		telemetry.CombatResult{Result: telemetry.ResultDeath, Timestamp: now - 1000},
	)

	b, err := d.FrustrationIndicators(context.Background(), "s1")
	if err != nil {
		t.Fatalf("indicators: %v", err)
	}
	if b.DeathStreak != 3 {
		t.Fatalf("deathStreak = %d, want 3", b.DeathStreak)
	}
}

func TestDeathStreak_ZeroWhenLatestIsVictory(t *testing.T) {
	d, tel := newTestDetector(t)
	now := time.Now().UnixMilli()

	seedCombats(t, tel, "s1",
		telemetry.CombatResult{Result: telemetry.ResultDeath, Timestamp: now - 2000},
		telemetry.CombatResult{Result: telemetry.ResultVictory, Timestamp: now - 1000},
	)

	b, _ := d.FrustrationIndicators(context.Background(), "s1")
	if b.DeathStreak != 0 {
		t.Fatalf("deathStreak = %d, want 0", b.DeathStreak)
	}
}

func TestInputVariance_NeutralBelowFiveSamples(t *testing.T) {
	d, tel := newTestDetector(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	for i := 0; i < 4; i++ {
		ev := telemetry.InputEvent{Type: "click", Timestamp: now - int64(i)*1000}
		if err := tel.RecordInput(ctx, "s1", ev); err != nil {
			t.Fatalf("seed input: %v", err)
		}
	}

	b, _ := d.FrustrationIndicators(ctx, "s1")
	if b.InputVariance != 1.0 {
		t.Fatalf("inputVariance = %v, want neutral 1.0", b.InputVariance)
	}
}

func TestInputVariance_EmptySessionIsNeutral(t *testing.T) {
	d, _ := newTestDetector(t)

	b, err := d.FrustrationIndicators(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("indicators: %v", err)
	}
	if b.InputVariance != 1.0 {
		t.Fatalf("inputVariance = %v, want neutral 1.0", b.InputVariance)
	}
}

func TestInputVariance_SpamRaisesScore(t *testing.T) {
	d, tel := newTestDetector(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	// ~20 clicks/s over 25s, evenly spaced so timing CV stays near zero.
	for i := 0; i < 500; i++ {
		ev := telemetry.InputEvent{Type: "click", Timestamp: now - 25_000 + int64(i)*50}
		if err := tel.RecordInput(ctx, "s1", ev); err != nil {
			t.Fatalf("seed input: %v", err)
		}
	}

	b, _ := d.FrustrationIndicators(ctx, "s1")
	// 500 clicks / 30s ≈ 16.7/s → spam term ≈ 0.67.
	if b.InputVariance < 0.5 {
		t.Fatalf("inputVariance = %v, expected spam contribution", b.InputVariance)
	}
}

func TestQuickQuitAfterDeath_Boundary(t *testing.T) {
	cases := []struct {
		name  string
		delta int64
		want  bool
	}{
		{"just inside", 9_999, true},
		{"just outside", 10_001, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, tel := newTestDetector(t)
			ctx := context.Background()
			now := time.Now().UnixMilli()

			deathAt := now - 60_000
			_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{Type: "death", Timestamp: deathAt})
			_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{Type: "quit", Timestamp: deathAt + tc.delta})

			b, _ := d.FrustrationIndicators(ctx, "s1")
			if b.QuickQuitAfterDeath != tc.want {
				t.Fatalf("quickQuitAfterDeath = %v, want %v", b.QuickQuitAfterDeath, tc.want)
			}
		})
	}
}

func TestQuickQuit_EarlierRageQuitStillCounts(t *testing.T) {
	d, tel := newTestDetector(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	// A qualifying quit 5s after a death, followed by a later unrelated quit.
	deathAt := now - 120_000
	_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{Type: "death", Timestamp: deathAt})
	_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{Type: "quit", Timestamp: deathAt + 5_000})
	_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{Type: "quit", Timestamp: deathAt + 60_000})

	b, _ := d.FrustrationIndicators(ctx, "s1")
	if !b.QuickQuitAfterDeath {
		t.Fatal("quickQuitAfterDeath = false, but a quit 5s after a death exists")
	}
}

func TestQuickQuit_FalseWithoutPrecedingDeath(t *testing.T) {
	d, tel := newTestDetector(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{Type: "quit", Timestamp: now - 1000})

	b, _ := d.FrustrationIndicators(ctx, "s1")
	if b.QuickQuitAfterDeath {
		t.Fatal("quickQuitAfterDeath true with no death on record")
	}
}

func TestRapidRetries_OnlyCountsShortWindow(t *testing.T) {
	d, tel := newTestDetector(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	for _, ts := range []int64{now - 40_000, now - 20_000, now - 10_000, now - 1_000} {
		_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{Type: "retry", Timestamp: ts})
	}

	b, _ := d.FrustrationIndicators(ctx, "s1")
	if b.RapidRetries != 3 {
		t.Fatalf("rapidRetries = %d, want 3", b.RapidRetries)
	}
}

func TestEmotionalScore_PenaltiesAccumulateAndFloor(t *testing.T) {
	if got := emotionalScore(4, 3, 2.5); got != -1 {
		t.Fatalf("emotionalScore = %v, want floor -1", got)
	}
	if got := emotionalScore(4, 0, 0); got != -0.3 {
		t.Fatalf("emotionalScore = %v, want -0.3", got)
	}
	if got := emotionalScore(0, 0, 0); got != 0 {
		t.Fatalf("emotionalScore = %v, want 0", got)
	}
}

func TestActionRegression_NeedsTenActionsPerWindow(t *testing.T) {
	d, tel := newTestDetector(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	// 9 prior strategic actions: below floor, so no signal regardless of drop.
	for i := 0; i < 9; i++ {
		_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{
			Type: "strategic", Timestamp: now - longWindowMs + 5_000 + int64(i)*1000,
		})
	}
	for i := 0; i < 12; i++ {
		_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{
			Type: "basic", Timestamp: now - 60_000 + int64(i)*1000,
		})
	}

	b, _ := d.FrustrationIndicators(ctx, "s1")
	if b.ActionRegression != 0 {
		t.Fatalf("actionRegression = %v, want 0 for thin prior window", b.ActionRegression)
	}
}

func TestActionRegression_DetectsComplexityDrop(t *testing.T) {
	d, tel := newTestDetector(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	// Prior window: strategic play (weight 5). Recent: basics (weight 1).
	for i := 0; i < 12; i++ {
		_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{
			Type: "strategic", Timestamp: now - longWindowMs + 5_000 + int64(i)*1000,
		})
	}
	for i := 0; i < 12; i++ {
		_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{
			Type: "basic", Timestamp: now - 60_000 + int64(i)*1000,
		})
	}

	b, _ := d.FrustrationIndicators(ctx, "s1")
	if b.ActionRegression != 4 {
		t.Fatalf("actionRegression = %v, want 4", b.ActionRegression)
	}
}

func TestActionRegression_ZeroWhenComplexityRises(t *testing.T) {
	d, tel := newTestDetector(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	for i := 0; i < 12; i++ {
		_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{
			Type: "basic", Timestamp: now - longWindowMs + 5_000 + int64(i)*1000,
		})
	}
	for i := 0; i < 12; i++ {
		_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{
			Type: "strategic", Timestamp: now - 60_000 + int64(i)*1000,
		})
	}

	b, _ := d.FrustrationIndicators(ctx, "s1")
	if b.ActionRegression != 0 {
		t.Fatalf("actionRegression = %v, want 0 when improving", b.ActionRegression)
	}
}

func TestPerformanceDrop_ZeroBelowTenCombats(t *testing.T) {
	d, tel := newTestDetector(t)
	now := time.Now().UnixMilli()

	for i := 0; i < 9; i++ {
		seedCombats(t, tel, "s1", telemetry.CombatResult{
			Result: telemetry.ResultDeath, TimeToComplete: 60, Timestamp: now - int64(9-i)*1000,
		})
	}

	b, _ := d.FrustrationIndicators(context.Background(), "s1")
	if b.PerformanceDrop != 0 {
		t.Fatalf("performanceDrop = %v, want 0", b.PerformanceDrop)
	}
}

func TestPerformanceDrop_DetectsCollapse(t *testing.T) {
	d, tel := newTestDetector(t)
	now := time.Now().UnixMilli()

	// 10 quick wins, then 5 slow deaths.
	for i := 0; i < 10; i++ {
		seedCombats(t, tel, "s1", telemetry.CombatResult{
			Result: telemetry.ResultVictory, TimeToComplete: 30, Timestamp: now - int64(15-i)*1000,
		})
	}
	for i := 0; i < 5; i++ {
		seedCombats(t, tel, "s1", telemetry.CombatResult{
			Result: telemetry.ResultDeath, TimeToComplete: 90, Timestamp: now - int64(5-i)*1000,
		})
	}

	b, _ := d.FrustrationIndicators(context.Background(), "s1")
	// Success rate 1.0 → 0.0 and time 30 → 90 saturate both terms: 0.7 + 0.3.
	if !approx(b.PerformanceDrop, 1.0) {
		t.Fatalf("performanceDrop = %v, want 1.0", b.PerformanceDrop)
	}
}

func TestHelpSeeking_CountsHelpActions(t *testing.T) {
	d, tel := newTestDetector(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	for _, typ := range []string{"check_hints", "pause_game", "attack", "open_menu"} {
		_ = tel.RecordAction(ctx, "s1", telemetry.ActionEvent{Type: typ, Timestamp: now - 5_000})
	}

	b, _ := d.FrustrationIndicators(ctx, "s1")
	if b.HelpSeeking != 3 {
		t.Fatalf("helpSeeking = %d, want 3", b.HelpSeeking)
	}
}
