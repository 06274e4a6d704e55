package config

import (
	"errors"
	"os"
	"strings"
)

// Store backend selection.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL         string
	Store         string            // postgres | memory
	ListenAddr    string
	SweepSchedule string            // cron spec for expired-key reclamation
	APIKeys       map[string]string // apiKey -> gameClientID
}

// Load reads required values from environment variables.
// API_KEYS format: "client1:key1,client2:key2"
func Load() (Config, error) {
	store := strings.TrimSpace(os.Getenv("STORE"))
	if store == "" {
		store = StorePostgres
	}
	if store != StorePostgres && store != StoreMemory {
		return Config{}, errors.New(`STORE must be "postgres" or "memory"`)
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" && store == StorePostgres {
		return Config{}, errors.New("DB_URL required")
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	sweep := strings.TrimSpace(os.Getenv("SWEEP_SCHEDULE"))
	if sweep == "" {
		sweep = "@every 1m"
	}

	apiKeysRaw := strings.TrimSpace(os.Getenv("API_KEYS"))
	apiKeys := map[string]string{}

	if apiKeysRaw != "" {
		pairs := strings.Split(apiKeysRaw, ",")
		for _, p := range pairs {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			parts := strings.SplitN(p, ":", 2)
			if len(parts) != 2 {
				return Config{}, errors.New(`API_KEYS must be "client:key,client:key"`)
			}
			client := strings.TrimSpace(parts[0])
			key := strings.TrimSpace(parts[1])
			if client == "" || key == "" {
				return Config{}, errors.New(`API_KEYS must be "client:key,client:key"`)
			}
			apiKeys[key] = client
		}
	}

	// Local dev fallback so the service runs out-of-the-box.
	if len(apiKeys) == 0 {
		apiKeys["game-key-123"] = "game1"
	}

	return Config{
		DBURL:         dbURL,
		Store:         store,
		ListenAddr:    listenAddr,
		SweepSchedule: sweep,
		APIKeys:       apiKeys,
	}, nil
}
