package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const upsertRecord = `
	INSERT INTO records (key, value, revision, updated_at)
	VALUES (?, ?, 1, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		revision = records.revision + 1,
		updated_at = excluded.updated_at
`

// Put replaces the value stored under key and bumps its revision.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertRecord, key, string(value), s.stamp()); err != nil {
		return fmt.Errorf("write record %q: %w", key, err)
	}
	return nil
}

// PutAll replaces every entry in a single transaction.
func (s *Store) PutAll(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write records: begin: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := putAllTx(ctx, tx, entries, s.stamp()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write records: commit: %w", err)
	}
	return nil
}

func putAllTx(ctx context.Context, tx *sql.Tx, entries []Entry, stamp string) error {
	stmt, err := tx.PrepareContext(ctx, upsertRecord)
	if err != nil {
		return fmt.Errorf("write records: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Key, string(e.Value), stamp); err != nil {
			return fmt.Errorf("write record %q: %w", e.Key, err)
		}
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete record %q: %w", key, err)
	}
	return nil
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}
