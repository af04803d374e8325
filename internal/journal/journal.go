// Package journal keeps a local record of every create, update and delete
// the client completed, in the DuckDB file opened by internal/db.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/internal/api"
)

// Outcomes stored in the outcome column
const (
	OutcomeOK          = "ok"
	OutcomeFailed      = "failed"
	OutcomeAuthExpired = "auth_expired"
)

const queueSize = 64

// Entry is one journal row
type Entry struct {
	Resource   string    `json:"resource" yaml:"resource"`
	Action     string    `json:"action" yaml:"action"`
	EntityID   int64     `json:"entity_id" yaml:"entity_id"`
	Outcome    string    `json:"outcome" yaml:"outcome"`
	Detail     string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}

// Count is the number of entries for one resource and outcome
type Count struct {
	Resource string `json:"resource" yaml:"resource"`
	Outcome  string `json:"outcome" yaml:"outcome"`
	N        int64  `json:"n" yaml:"n"`
}

// Journal appends entries from a background writer so callers on the UI loop never wait on disk
type Journal struct {
	db      *sql.DB
	entries chan Entry
	done    chan struct{}
	now     func() time.Time

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New starts the writer. Close must be called to flush pending entries.
func New(db *sql.DB) *Journal {
	j := &Journal{
		db:      db,
		entries: make(chan Entry, queueSize),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go j.write()
	return j
}

// Record queues the outcome of a mutation. It never blocks: when the queue
// is full or the journal is closed the entry is dropped.
func (j *Journal) Record(resource, action string, entityID int64, err error) {
	entry := Entry{
		Resource:   resource,
		Action:     action,
		EntityID:   entityID,
		Outcome:    outcomeOf(err),
		RecordedAt: j.now().UTC(),
	}
	if err != nil {
		entry.Detail = err.Error()
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		log.Warn().Str("resource", resource).Str("action", action).Msg("journal closed, entry dropped")
		return
	}
	select {
	case j.entries <- entry:
	default:
		log.Warn().Str("resource", resource).Str("action", action).Msg("journal queue full, entry dropped")
	}
}

// Append writes an entry synchronously
func (j *Journal) Append(ctx context.Context, e Entry) error {
	var detail sql.NullString
	if e.Detail != "" {
		detail = sql.NullString{String: e.Detail, Valid: true}
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO journal (resource, action, entity_id, outcome, detail, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Resource, e.Action, e.EntityID, e.Outcome, detail, e.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT resource, action, entity_id, outcome, detail, recorded_at
		FROM journal
		ORDER BY recorded_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var detail sql.NullString
		if err := rows.Scan(&e.Resource, &e.Action, &e.EntityID, &e.Outcome, &detail, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Detail = detail.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summary counts entries per resource and outcome
func (j *Journal) Summary(ctx context.Context) ([]Count, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT resource, outcome, count(*)
		FROM journal
		GROUP BY resource, outcome
		ORDER BY resource, outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize journal: %w", err)
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Resource, &c.Outcome, &c.N); err != nil {
			return nil, fmt.Errorf("failed to scan journal count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Close stops accepting entries and waits until the queued ones are written
func (j *Journal) Close() {
	j.closeOnce.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.entries)
		j.mu.Unlock()
	})
	<-j.done
}

func (j *Journal) write() {
	defer close(j.done)
	for e := range j.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := j.Append(ctx, e); err != nil {
			log.Error().Err(err).Str("resource", e.Resource).Str("action", e.Action).Msg("journal write failed")
		}
		cancel()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, api.ErrAuthExpired):
		return OutcomeAuthExpired
	default:
		return OutcomeFailed
	}
}
