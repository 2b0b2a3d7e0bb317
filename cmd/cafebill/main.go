// Package main provides the CLI entrypoint for cafebill.
//
// cafebill manages cafe bills from creation to completion:
//   - bills are created per table, edited while PENDING and frozen once COMPLETED
//   - the product menu and table registry are edited alongside
//   - the whole state can be backed up and restored as one snapshot
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/cafebill/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
