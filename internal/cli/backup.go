package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cafebill/internal/model"
	"github.com/roach88/cafebill/internal/snapshot"
)

// backupResult is reported after a backup is written to a file.
type backupResult struct {
	Path        string `json:"path"`
	Bills       int    `json:"bills"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

func (r backupResult) String() string {
	s := fmt.Sprintf("Backed up %d bill(s) to %s.", r.Bills, r.Path)
	if r.Fingerprint != "" {
		s += "\nFingerprint: " + r.Fingerprint
	}
	return s
}

// restoreResult is reported after a successful restore.
type restoreResult struct {
	Bills       int    `json:"bills"`
	Categories  int    `json:"categories"`
	Tables      int    `json:"tables"`
	Fingerprint string `json:"fingerprint"`
}

func (r restoreResult) String() string {
	return fmt.Sprintf("Restored %d bill(s), %d categories, %d tables.\nFingerprint: %s",
		r.Bills, r.Categories, r.Tables, r.Fingerprint)
}

// NewBackupCommand creates the backup command.
func NewBackupCommand(opts *RootOptions) *cobra.Command {
	var (
		output      string
		asYAML      bool
		fingerprint bool
	)

	cmd := &cobra.Command{
		Use:   "backup [-o FILE]",
		Short: "Export bills, menu and tables as one snapshot",
		Long: `Export bills, menu and tables as one snapshot document.

Without -o the snapshot is written to stdout. The fingerprint is a
content hash that ignores the backup date, so two backups of the same
state share it.

Examples:
  cafebill backup -o cafe-backup.json
  cafebill backup --yaml -o cafe-backup.yaml --fingerprint`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := snapshot.FormatJSON
			if asYAML {
				format = snapshot.FormatYAML
			}
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				snap, err := app.Snapshots.Export(ctx)
				if err != nil {
					return err
				}
				data, err := snapshot.Encode(snap, format)
				if err != nil {
					return err
				}

				if output == "" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return WrapExitError(ExitCommandError, "failed to write backup", err)
				}

				res := backupResult{Path: output, Bills: len(snap.Bills)}
				if fingerprint {
					if res.Fingerprint, err = model.Fingerprint(snap); err != nil {
						return err
					}
				}
				return out.Success(res)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "write YAML instead of JSON")
	cmd.Flags().BoolVar(&fingerprint, "fingerprint", false, "report the content fingerprint")
	return cmd
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(opts *RootOptions) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace bills, menu and tables from a snapshot",
		Long: `Replace bills, menu and tables from a snapshot file.

The whole file is validated first; an invalid snapshot changes nothing.
The format follows the file extension (.yaml or .yml for YAML) unless
--yaml is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := snapshotFormat(path, asYAML)
			if err != nil {
				return NewExitError(ExitCommandError, err.Error())
			}
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				data, err := os.ReadFile(path)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read snapshot", err)
				}
				snap, err := app.Snapshots.Import(ctx, data, format)
				if err != nil {
					return err
				}
				fp, err := model.Fingerprint(snap)
				if err != nil {
					return err
				}
				out.VerboseLog("restored from %s (%s)", path, format)
				return out.Success(restoreResult{
					Bills:       len(snap.Bills),
					Categories:  snap.Menu.Len(),
					Tables:      len(snap.Tables),
					Fingerprint: fp,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "read YAML regardless of extension")
	return cmd
}

// snapshotFormat picks the snapshot format from the flag or the extension.
func snapshotFormat(path string, asYAML bool) (snapshot.Format, error) {
	if asYAML {
		return snapshot.FormatYAML, nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext != "yaml" && ext != "yml" {
		ext = ""
	}
	return snapshot.ParseFormat(ext)
}
