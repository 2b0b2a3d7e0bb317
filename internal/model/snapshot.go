package model

import "time"

// Snapshot is the whole persisted state as exported for backup and
// accepted by restore.
type Snapshot struct {
	Bills  []Bill   `json:"bills" yaml:"bills"`
	Menu   Menu     `json:"menu" yaml:"menu"`
	Tables []string `json:"tables" yaml:"tables"`

	// BackupDate is stamped on export and ignored on import.
	BackupDate *time.Time `json:"backupDate,omitempty" yaml:"backupDate,omitempty"`
}
