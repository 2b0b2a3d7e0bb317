// Package model defines the persisted data model for cafebill: bills and
// their line items, the menu catalog, the table registry, and the snapshot
// that bundles all three for backup and restore.
//
// This package contains type definitions and pure helpers only. Every other
// internal package imports model; model imports nothing internal.
//
// Key constraints:
//   - Money is integer units (int64). Floats are rejected at every boundary,
//     including canonical JSON.
//   - Bill.TotalAmount is derived from Items and is only ever written by
//     Bill.Recalculate.
//   - JSON field names follow the cafe backup file format (camelCase), so
//     backups written by older tools restore unchanged.
package model
