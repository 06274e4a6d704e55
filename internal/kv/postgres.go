package kv

import (
	"context"
	_ "embed"
	"errors"
	"log"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// schemaSQL is embedded so the service can self-bootstrap its key-value table.
//
//go:embed schema.sql
var schemaSQL string

// Postgres is the durable Store implementation.
//
// Every mutation is a single statement, so per-key read-modify-write is atomic
// without application-side locking. Expired rows are filtered on every read and
// physically reclaimed by the sweeper; the row's expires_at is therefore a
// coarse bound, not the source of truth for liveness.
type Postgres struct {
	pool    *pgxpool.Pool
	sweeper *cron.Cron
}

// NewPostgres creates a connection pool and fails fast if the DB is unreachable.
func NewPostgres(dbURL string) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *Postgres) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close stops the sweeper (if running) and shuts down the connection pool.
func (p *Postgres) Close() {
	if p.sweeper != nil {
		p.sweeper.Stop()
	}
	p.pool.Close()
}

// ttlSeconds rounds a TTL up to whole seconds, minimum 1s.
func ttlSeconds(ttl time.Duration) int64 {
	s := int64(math.Ceil(ttl.Seconds()))
	if s < 1 {
		s = 1
	}
	return s
}

// Put implements Store.
func (p *Postgres) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv_entries(key, value, expires_at)
		VALUES ($1, $2::jsonb, now() + make_interval(secs => $3))
		ON CONFLICT (key) DO UPDATE SET
			value      = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at
	`, key, value, ttlSeconds(ttl))
	return err
}

// Get implements Store. Expired-but-unswept rows are treated as absent.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, `
		SELECT value FROM kv_entries
		WHERE key = $1 AND expires_at > now()
	`, key).Scan(&value)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Delete implements Store.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

// PushCapped implements Store.
//
// The UPSERT appends to the stored jsonb array and, since each push adds
// exactly one element, trims at most one element from the front when the cap
// is exceeded. An expired row restarts from an empty list.
func (p *Postgres) PushCapped(ctx context.Context, key string, item []byte, cap int, ttl time.Duration) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv_entries(key, value, expires_at)
		VALUES ($1, jsonb_build_array($2::jsonb), now() + make_interval(secs => $4))
		ON CONFLICT (key) DO UPDATE SET
			value = (
				SELECT CASE WHEN jsonb_array_length(appended) > $3
					THEN appended - 0
					ELSE appended
				END
				FROM (
					SELECT (CASE WHEN kv_entries.expires_at > now()
						THEN kv_entries.value
						ELSE '[]'::jsonb
					END) || jsonb_build_array($2::jsonb) AS appended
				) t
			),
			expires_at = now() + make_interval(secs => $4)
	`, key, item, cap, ttlSeconds(ttl))
	return err
}

// ReadList implements Store.
func (p *Postgres) ReadList(ctx context.Context, key string) ([][]byte, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT elem FROM kv_entries,
			jsonb_array_elements(value) WITH ORDINALITY AS t(elem, ord)
		WHERE key = $1 AND expires_at > now()
		ORDER BY ord
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var elem []byte
		if err := rows.Scan(&elem); err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
	return out, rows.Err()
}

// Sweep deletes expired rows and returns how many were reclaimed.
func (p *Postgres) Sweep(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM kv_entries WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// StartSweeper runs Sweep on the given cron schedule (e.g. "@every 1m") until
// Close. Expiry timers belong to the store; application code never schedules
// its own reclamation.
func (p *Postgres) StartSweeper(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := p.Sweep(ctx)
		if err != nil {
			log.Printf("[kv] sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[kv] swept %d expired keys", n)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	p.sweeper = c
	log.Printf("[kv] sweeper started (%s)", schedule)
	return nil
}
