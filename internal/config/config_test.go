package config

import "testing"

func TestLoad_RequiresDBURLForPostgres(t *testing.T) {
	t.Setenv("STORE", "postgres")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DB_URL")
	}
}

func TestLoad_MemoryStoreNeedsNoDB(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("DB_URL", "")
	t.Setenv("API_KEYS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreMemory {
		t.Fatalf("store = %s", cfg.Store)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("listenAddr = %s", cfg.ListenAddr)
	}
	if cfg.SweepSchedule != "@every 1m" {
		t.Fatalf("sweepSchedule = %s", cfg.SweepSchedule)
	}
	// Dev fallback key keeps the service usable out-of-the-box.
	if cfg.APIKeys["game-key-123"] != "game1" {
		t.Fatalf("missing dev fallback key: %v", cfg.APIKeys)
	}
}

func TestLoad_ParsesAPIKeyPairs(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("API_KEYS", "adventure:key-a, rpg:key-b")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKeys["key-a"] != "adventure" || cfg.APIKeys["key-b"] != "rpg" {
		t.Fatalf("apiKeys = %v", cfg.APIKeys)
	}
}

func TestLoad_RejectsMalformedAPIKeys(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("API_KEYS", "justakey")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed API_KEYS")
	}
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	t.Setenv("STORE", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store")
	}
}
