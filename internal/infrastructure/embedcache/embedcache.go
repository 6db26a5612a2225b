// Package embedcache persists label text embeddings in SQLite so the text
// encoder only runs once per (model, label) pair.
package embedcache

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tailscale/squibble"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var dbSchema string

var schema = &squibble.Schema{
	Current: dbSchema,
}

// Cache is a SQLite-backed embedding store
type Cache struct {
	mu sync.Mutex
	db *sql.DB

	now func() time.Time
}

// Open opens or creates the cache database at fname. Use ":memory:" for an
// ephemeral cache.
func Open(ctx context.Context, fname string) (*Cache, error) {
	sqldb, err := sql.Open("sqlite", fname+"?_time_format=sqlite")
	if err != nil {
		return nil, err
	}
	// an in-memory database exists per connection
	sqldb.SetMaxOpenConns(1)

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, err
	}
	if err := schema.Apply(ctx, sqldb); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Cache{db: sqldb, now: time.Now}, nil
}

// Close closes the database
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.db.Close()
}

// Get returns the stored vector for (model, text)
func (c *Cache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT vector FROM text_embeddings WHERE model = ? AND text = ?`,
		model, text,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	vector := make([]float32, len(blob)/4)
	if err := binary.Read(bytes.NewReader(blob), binary.BigEndian, vector); err != nil {
		return nil, false, fmt.Errorf("decode vector: %w", err)
	}
	return vector, true, nil
}

// Put stores vector for (model, text), replacing any previous value
func (c *Cache) Put(ctx context.Context, model, text string, vector []float32) error {
	buf := &bytes.Buffer{}
	buf.Grow(len(vector) * 4)
	if err := binary.Write(buf, binary.BigEndian, vector); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO text_embeddings (model, text, vector, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (model, text) DO UPDATE SET vector = excluded.vector, created_at = excluded.created_at`,
		model, text, buf.Bytes(), c.now().UTC(),
	)
	return err
}

// Count returns the number of stored embeddings for model
func (c *Cache) Count(ctx context.Context, model string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM text_embeddings WHERE model = ?`, model).Scan(&n)
	return n, err
}
