// Package store provides durable storage for cafebill state.
//
// State is three independent records, each replaced as a whole:
//   - cafe-bills:  the ordered bill collection
//   - cafe-menu:   the menu catalog
//   - cafe-tables: the table registry
//
// There is no partial or per-bill update primitive. Callers read a record,
// transform it in memory and write it back; PutAll replaces several records
// in one transaction so that snapshot restore is all-or-nothing.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// MemoryStore implements the same KV interface for tests and the scenario
// harness.
package store
