package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/cafebill/internal/bills"
	"github.com/roach88/cafebill/internal/catalog"
	"github.com/roach88/cafebill/internal/engine"
	"github.com/roach88/cafebill/internal/model"
	"github.com/roach88/cafebill/internal/store"
)

// Service exports and restores the whole persisted state.
type Service struct {
	kv      store.KV
	repo    *bills.Repository
	catalog *catalog.Store
	clock   engine.Clock
	logger  *slog.Logger
}

// NewService returns a Service over kv. A nil clock uses engine.SystemClock
// and a nil logger uses slog.Default().
func NewService(kv store.KV, clock engine.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = engine.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		kv:      kv,
		repo:    bills.NewRepository(kv),
		catalog: catalog.New(kv, logger),
		clock:   clock,
		logger:  logger,
	}
}

// Export reads bills, menu and tables and stamps the backup date.
func (s *Service) Export(ctx context.Context) (model.Snapshot, error) {
	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("export: %w", err)
	}
	menu, err := s.catalog.GetMenu(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("export: %w", err)
	}
	tables, err := s.catalog.GetTables(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("export: %w", err)
	}

	now := s.clock.Now()
	s.logger.Info("snapshot exported", "bills", len(all), "categories", menu.Len(), "tables", len(tables))
	return model.Snapshot{
		Bills:      all,
		Menu:       menu,
		Tables:     tables,
		BackupDate: &now,
	}, nil
}

// Import decodes, validates and restores a payload.
func (s *Service) Import(ctx context.Context, data []byte, format Format) (model.Snapshot, error) {
	snap, err := Decode(data, format)
	if err != nil {
		return model.Snapshot{}, err
	}
	if err := s.write(ctx, snap); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// ImportSnapshot restores an already decoded snapshot after checking its
// invariants. Nil Bills or Tables count as absent fields and fail with
// InvalidSnapshot; use empty slices for an empty collection. The zero Menu
// is an empty menu. BackupDate is ignored.
func (s *Service) ImportSnapshot(ctx context.Context, snap model.Snapshot) error {
	if snap.Bills == nil {
		return model.Errorf(model.ErrInvalidSnapshot, "missing field %q", "bills").
			WithDetail("field", "bills")
	}
	if snap.Tables == nil {
		return model.Errorf(model.ErrInvalidSnapshot, "missing field %q", "tables").
			WithDetail("field", "tables")
	}
	if err := checkInvariants(snap); err != nil {
		return err
	}
	return s.write(ctx, snap)
}

func (s *Service) write(ctx context.Context, snap model.Snapshot) error {
	if snap.Bills == nil {
		snap.Bills = []model.Bill{}
	}
	if snap.Tables == nil {
		snap.Tables = []string{}
	}

	entries := make([]store.Entry, 0, 3)
	for _, rec := range []struct {
		key   string
		value any
	}{
		{store.KeyBills, snap.Bills},
		{store.KeyMenu, snap.Menu},
		{store.KeyTables, snap.Tables},
	} {
		e, err := store.JSONEntry(rec.key, rec.value)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		entries = append(entries, e)
	}

	if err := s.kv.PutAll(ctx, entries); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.logger.Info("snapshot restored",
		"bills", len(snap.Bills),
		"categories", snap.Menu.Len(),
		"tables", len(snap.Tables))
	return nil
}
