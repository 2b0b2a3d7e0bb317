// Package engine implements the bill lifecycle.
//
// State machine per bill:
//
//	PENDING --[complete]--> COMPLETED
//	PENDING --[cancel]----> (removed)
//	COMPLETED: terminal, may only be removed
//
// SINGLE WRITER:
// Every operation loads the full bill collection from the repository,
// edits a copy of the target bill, recomputes its total and writes the full
// collection back. The Engine serializes its own operations with a mutex,
// and must be the only writer of bill state; a second writer would lose
// updates.
//
// FAILURES:
// Every failure is detected before the single write, so a failed call
// leaves the stored collection byte-for-byte unchanged.
//
// IDS:
// Bill ids come from an IDGenerator. MillisIDGenerator produces the
// BILL-<unix millis> ids used by existing backups; UUIDv7Generator produces
// time-sortable UUIDs. CreateBill regenerates on the rare collision with an
// id already in the collection.
package engine
