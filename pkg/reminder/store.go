package reminder

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists reminders. It is consumed by the poller and the RPC layer;
// the scheduler never touches it directly.
type Store interface {
	// Init prepares the schema. The daemon passes it to the scheduler as the
	// "local reminder state is ready" signal.
	Init(ctx context.Context) error
	Add(ctx context.Context, r *Reminder) error
	Get(ctx context.Context, id string) (*Reminder, error)
	List(ctx context.Context) ([]Reminder, error)
	Due(ctx context.Context, now time.Time) (DueBatch, error)
	Remove(ctx context.Context, id string) error
	Snooze(ctx context.Context, id string, until time.Time) error
	// Done completes a reminder. Recurring reminders are re-armed at their
	// next occurrence and returned; one-shot reminders are deleted and nil
	// is returned.
	Done(ctx context.Context, id string, now time.Time) (*Reminder, error)
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS reminders (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	type       TEXT NOT NULL,
	due_at     INTEGER NOT NULL,
	related_id TEXT NOT NULL DEFAULT '',
	recurrence TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS reminders_due_at ON reminders (due_at);
`

const selectColumns = `SELECT id, title, type, due_at, related_id, recurrence FROM reminders`

// SQLiteStore is a Store backed by a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. Call Init
// before using the store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open reminder db: %w", err)
	}
	// a single connection serialises writers and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate reminder db: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Add(ctx context.Context, r *Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		r.ID = id
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (id, title, type, due_at, related_id, recurrence) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, string(r.Type), r.DueAt.UnixMilli(), r.RelatedID, r.Recurrence,
	)
	if err != nil {
		return fmt.Errorf("insert reminder %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Reminder, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder %s: %w", id, err)
	}
	return r, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Reminder, error) {
	return s.query(ctx, selectColumns+` ORDER BY due_at, id`)
}

func (s *SQLiteStore) Due(ctx context.Context, now time.Time) (DueBatch, error) {
	rs, err := s.query(ctx, selectColumns+` WHERE due_at <= ? ORDER BY due_at, id`, now.UnixMilli())
	if err != nil {
		return nil, err
	}
	return DueBatch(rs), nil
}

func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	return s.exec(ctx, id, `DELETE FROM reminders WHERE id = ?`, id)
}

func (s *SQLiteStore) Snooze(ctx context.Context, id string, until time.Time) error {
	return s.exec(ctx, id, `UPDATE reminders SET due_at = ? WHERE id = ?`, until.UnixMilli(), id)
}

func (s *SQLiteStore) Done(ctx context.Context, id string, now time.Time) (*Reminder, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsRecurring() {
		return nil, s.Remove(ctx, id)
	}
	next, err := NextOccurrence(r.Recurrence, now)
	if err != nil {
		return nil, err
	}
	if err := s.Snooze(ctx, id, next); err != nil {
		return nil, err
	}
	r.DueAt = next
	return r, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) exec(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update reminder %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reminder %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()
	var out []Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(sc scanner) (*Reminder, error) {
	var (
		r     Reminder
		typ   string
		dueAt int64
	)
	if err := sc.Scan(&r.ID, &r.Title, &typ, &dueAt, &r.RelatedID, &r.Recurrence); err != nil {
		return nil, err
	}
	r.Type = Type(typ)
	r.DueAt = time.UnixMilli(dueAt)
	return &r, nil
}

func newID() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reminder id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

var _ Store = (*SQLiteStore)(nil)
