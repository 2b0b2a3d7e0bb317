package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/cafebill/internal/model"
)

// GetJSON decodes the record under key into v. It reports false and leaves
// v untouched if the key is absent. A record that is not valid JSON for v
// is an InvalidSnapshot error.
func GetJSON(ctx context.Context, kv KV, key string, v any) (bool, error) {
	data, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, model.InvalidSnapshotf(err, "stored record %q is corrupt", key).
			WithDetail("key", key)
	}
	return true, nil
}

// PutJSON encodes v and replaces the record under key.
func PutJSON(ctx context.Context, kv KV, key string, v any) error {
	e, err := JSONEntry(key, v)
	if err != nil {
		return err
	}
	return kv.Put(ctx, e.Key, e.Value)
}

// JSONEntry encodes v as an Entry for PutAll.
//
// Plain encoding/json is used rather than canonical JSON: the menu's
// category order must survive storage.
func JSONEntry(key string, v any) (Entry, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Entry{}, fmt.Errorf("encode record %q: %w", key, err)
	}
	return Entry{Key: key, Value: data}, nil
}
