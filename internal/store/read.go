package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	rec, ok, err := s.Record(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	return rec.Value, true, nil
}

// Record returns the stored record including its revision and update time.
func (s *Store) Record(ctx context.Context, key string) (Record, bool, error) {
	var (
		rec       Record
		value     string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT key, value, revision, updated_at
		FROM records
		WHERE key = ?
	`, key).Scan(&rec.Key, &value, &rec.Revision, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read record %q: %w", key, err)
	}

	rec.Value = []byte(value)
	rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Record{}, false, fmt.Errorf("read record %q: parse updated_at: %w", key, err)
	}
	return rec, true, nil
}

// Records lists every stored record ordered by key.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, revision, updated_at
		FROM records
		ORDER BY key COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			rec       Record
			value     string
			updatedAt string
		)
		if err := rows.Scan(&rec.Key, &value, &rec.Revision, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Value = []byte(value)
		if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, fmt.Errorf("scan record %q: parse updated_at: %w", rec.Key, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}
