package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/cafebill/internal/bills"
	"github.com/roach88/cafebill/internal/catalog"
	"github.com/roach88/cafebill/internal/engine"
	"github.com/roach88/cafebill/internal/metrics"
	"github.com/roach88/cafebill/internal/snapshot"
	"github.com/roach88/cafebill/internal/store"
)

// App wires the components over one open database.
type App struct {
	Store     *store.Store
	Catalog   *catalog.Store
	Bills     *bills.Repository
	Engine    *engine.Engine
	Snapshots *snapshot.Service
	Clock     engine.Clock
	Logger    *slog.Logger

	// Metrics is nil unless a metrics file is configured.
	Metrics *metrics.Metrics
}

// OpenApp opens the database named by opts and wires the catalog,
// repository, engine and snapshot service over it.
func OpenApp(opts *RootOptions) (*App, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = engine.SystemClock{}
	}
	ids := opts.IDs
	if ids == nil {
		if ids, err = engine.NewIDGenerator(opts.Config.IDScheme, clock); err != nil {
			st.Close()
			return nil, err
		}
	}

	var m *metrics.Metrics
	if opts.MetricsFile != "" {
		m = metrics.New()
	}

	repo := bills.NewRepository(st)
	return &App{
		Store:   st,
		Catalog: catalog.New(st, logger),
		Bills:   repo,
		Engine: engine.New(repo,
			engine.WithClock(clock),
			engine.WithIDGenerator(ids),
			engine.WithLogger(logger),
			engine.WithMetrics(m)),
		Snapshots: snapshot.NewService(st, clock, logger),
		Clock:     clock,
		Logger:    logger,
		Metrics:   m,
	}, nil
}

// Close closes the database.
func (a *App) Close() error {
	return a.Store.Close()
}

// withApp opens the app for one command run and reports any error fn
// returns through the formatter. When a metrics file is configured it is
// written after fn, whether or not fn failed.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, app *App, out *OutputFormatter) error) error {
	out := newFormatter(cmd, opts)

	app, err := OpenApp(opts)
	if err != nil {
		return out.Fail(WrapExitError(ExitCommandError,
			fmt.Sprintf("failed to open database %s", opts.Database), err))
	}
	defer app.Close()

	ctx := cmd.Context()
	err = fn(ctx, app, out)
	if app.Metrics != nil {
		if merr := writeMetrics(ctx, app, opts.MetricsFile); merr != nil {
			app.Logger.Warn("metrics not written", "path", opts.MetricsFile, "error", merr)
		}
	}
	if err != nil {
		return out.Fail(err)
	}
	return nil
}

// writeMetrics refreshes the bill gauges from the store and writes the
// textfile.
func writeMetrics(ctx context.Context, app *App, path string) error {
	all, err := app.Bills.LoadAll(ctx)
	if err != nil {
		return err
	}
	app.Metrics.SetBills(all)
	return app.Metrics.WriteTextfile(path)
}
