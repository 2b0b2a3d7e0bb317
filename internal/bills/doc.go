// Package bills is the bill repository: the whole ordered bill collection,
// persisted as a single record.
//
// The repository offers no per-bill update. Every change reads the entire
// collection, edits a copy and writes the entire collection back, so the
// lifecycle engine must be the only writer of bill state.
package bills
