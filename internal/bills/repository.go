package bills

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/cafebill/internal/model"
	"github.com/roach88/cafebill/internal/store"
)

// Repository loads and saves the bill collection.
type Repository struct {
	kv store.KV
}

// NewRepository returns a Repository backed by kv.
func NewRepository(kv store.KV) *Repository {
	return &Repository{kv: kv}
}

// LoadAll returns the persisted bills in stored order, or an empty slice if
// none have been saved.
func (r *Repository) LoadAll(ctx context.Context) ([]model.Bill, error) {
	var bills []model.Bill
	if _, err := store.GetJSON(ctx, r.kv, store.KeyBills, &bills); err != nil {
		return nil, fmt.Errorf("load bills: %w", err)
	}
	if bills == nil {
		bills = []model.Bill{}
	}
	return bills, nil
}

// SaveAll replaces the persisted collection.
func (r *Repository) SaveAll(ctx context.Context, bills []model.Bill) error {
	if bills == nil {
		bills = []model.Bill{}
	}
	if err := store.PutJSON(ctx, r.kv, store.KeyBills, bills); err != nil {
		return fmt.Errorf("save bills: %w", err)
	}
	return nil
}

// FindByID returns the bill with the given id.
func (r *Repository) FindByID(ctx context.Context, id string) (model.Bill, bool, error) {
	bills, err := r.LoadAll(ctx)
	if err != nil {
		return model.Bill{}, false, err
	}
	i := IndexOf(bills, id)
	if i < 0 {
		return model.Bill{}, false, nil
	}
	return bills[i], true, nil
}

// FilterByStatus returns the persisted bills with the given status.
func (r *Repository) FilterByStatus(ctx context.Context, status model.Status) ([]model.Bill, error) {
	bills, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByStatus(bills, status), nil
}

// FilterBySearchTerm returns the persisted bills matching term.
func (r *Repository) FilterBySearchTerm(ctx context.Context, term string) ([]model.Bill, error) {
	bills, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterBySearchTerm(bills, term), nil
}

// DeleteOlderThan removes bills created more than days days before now and
// returns how many were removed. Bills without a creation time are kept.
func (r *Repository) DeleteOlderThan(ctx context.Context, now time.Time, days int) (int, error) {
	if days < 1 {
		return 0, model.Errorf(model.ErrInvalidNumber, "days must be at least 1, got %d", days)
	}

	bills, err := r.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := now.AddDate(0, 0, -days)
	kept := make([]model.Bill, 0, len(bills))
	for _, b := range bills {
		if b.CreatedAt.IsZero() || !b.CreatedAt.Before(cutoff) {
			kept = append(kept, b)
		}
	}

	removed := len(bills) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := r.SaveAll(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// DeleteAll removes every bill. The menu and table registry are untouched.
func (r *Repository) DeleteAll(ctx context.Context) error {
	if err := r.kv.Delete(ctx, store.KeyBills); err != nil {
		return fmt.Errorf("delete bills: %w", err)
	}
	return nil
}
