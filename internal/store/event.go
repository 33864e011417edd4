package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// llmEventsCounter names the sequence that numbers LLM request events.
const llmEventsCounter = "llm_request_events"

// counter hands out monotonic numbers from a named row of the sequences
// table. Row ids are reused by SQLite once the newest rows are pruned; a
// counter never goes back, so `llm list` can page by sequence across
// prunes.
type counter struct {
	mu   sync.Mutex
	db   *sql.DB
	name string
}

// newCounter seeds the named counter at 1 unless it already exists.
func newCounter(ctx context.Context, db *sql.DB, name string) (*counter, error) {
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sequences (name, next_val) VALUES (?, 1)`, name,
	); err != nil {
		return nil, fmt.Errorf("seed counter %s: %w", name, err)
	}
	return &counter{db: db, name: name}, nil
}

// Next returns the current value and advances the counter in one statement.
func (c *counter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	err := c.db.QueryRowContext(ctx,
		`UPDATE sequences SET next_val = next_val + 1 WHERE name = ? RETURNING next_val - 1`, c.name,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("advance counter %s: %w", c.name, err)
	}
	return n, nil
}
