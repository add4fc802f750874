package prefs

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS flowaudio_prefs (
	key   TEXT PRIMARY KEY,
	value DOUBLE PRECISION NOT NULL
)`
	selectAllSQL = `SELECT key, value FROM flowaudio_prefs`
	upsertSQL    = `INSERT INTO flowaudio_prefs (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
)

// Postgres stores preferences in a single table. Values are read once at
// Open and served from memory; every Set is written through.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	values  map[string]float64
	mu      sync.RWMutex
}

// OpenPostgres connects, creates the table if needed and loads all values
func OpenPostgres(ctx context.Context, url string, timeout time.Duration) (*Postgres, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect prefs database: %w", err)
	}

	p := &Postgres{
		pool:    pool,
		timeout: timeout,
		values:  make(map[string]float64),
	}

	if err := p.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create prefs table: %w", err)
	}

	rows, err := p.pool.Query(ctx, selectAllSQL)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	defer rows.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan prefs row: %w", err)
		}
		p.values[key] = value
	}
	return rows.Err()
}

func (p *Postgres) Float(key string, def float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

func (p *Postgres) SetFloat(key string, v float64) error {
	return p.set(key, v)
}

func (p *Postgres) Int(key string, def int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if v, ok := p.values[key]; ok {
		return int(math.Round(v))
	}
	return def
}

func (p *Postgres) SetInt(key string, v int) error {
	return p.set(key, float64(v))
}

func (p *Postgres) set(key string, v float64) error {
	p.mu.Lock()
	p.values[key] = v
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if _, err := p.pool.Exec(ctx, upsertSQL, key, v); err != nil {
		return fmt.Errorf("save pref %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool
func (p *Postgres) Close() {
	p.pool.Close()
}
