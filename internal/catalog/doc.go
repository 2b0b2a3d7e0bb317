// Package catalog holds the menu and the table registry.
//
// Both are persisted as whole records through store.KV. Reads fall back to
// the built-in defaults when nothing has been saved; the default values are
// rebuilt on every call, so callers may mutate what they receive.
//
// The table registry heals itself: if a stored registry lacks any default
// table, GetTables merges the missing ones in, sorts numerically and writes
// the repaired list back before returning it.
package catalog
