// Package snapshot exports and restores the full persisted state: bills,
// menu and table registry as one unit.
//
// Restore is all-or-nothing. A payload is rejected with InvalidSnapshot if
// any top-level field is missing or null, if it does not satisfy the
// embedded CUE schema (schema.cue), or if its bills break a collection
// invariant (stale totals, duplicate ids, duplicate line names). Only a
// payload that passes every check is written, and all three records are
// written in one transaction.
//
// Payloads are JSON (the original backup format) or YAML.
package snapshot
