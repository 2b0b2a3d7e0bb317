package model

// Version constants for the snapshot format and the tool.
const (
	// SnapshotVersion is the backup/restore format version.
	SnapshotVersion = "1"

	// Version is the cafebill release version.
	Version = "0.1.0"
)
