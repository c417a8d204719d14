package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the statements used against the preferences table.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Preference is one stored row.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

const getPreference = `SELECT key, value, updated_at FROM preferences WHERE key = ?`

func (q *Queries) GetPreference(ctx context.Context, key string) (Preference, error) {
	var p Preference
	err := q.db.QueryRowContext(ctx, getPreference, key).Scan(&p.Key, &p.Value, &p.UpdatedAt)
	return p, err
}

const upsertPreference = `INSERT INTO preferences (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (q *Queries) UpsertPreference(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, upsertPreference, key, value)
	return err
}

const deletePreference = `DELETE FROM preferences WHERE key = ?`

func (q *Queries) DeletePreference(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deletePreference, key)
	return err
}

const listPreferences = `SELECT key, value, updated_at FROM preferences ORDER BY key`

func (q *Queries) ListPreferences(ctx context.Context) ([]Preference, error) {
	rows, err := q.db.QueryContext(ctx, listPreferences)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Preference
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Key, &p.Value, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}
