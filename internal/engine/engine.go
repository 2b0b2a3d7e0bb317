package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/cafebill/internal/bills"
	"github.com/roach88/cafebill/internal/metrics"
	"github.com/roach88/cafebill/internal/model"
)

// Engine enforces the bill lifecycle over a bill repository.
//
// Thread-safety model:
//   - all exported methods are safe from any goroutine; a mutex serializes
//     them so each read-modify-write cycle runs alone
//   - a second Engine (or any other writer) on the same store is NOT
//     coordinated with and will lose updates
type Engine struct {
	mu      sync.Mutex
	repo    *bills.Repository
	clock   Clock
	ids     IDGenerator
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option allows configuration of engine collaborators.
type Option func(*Engine)

// WithClock sets the time source for createdAt and completedAt.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithIDGenerator sets the bill id source.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics records every operation outcome and the bill counts after
// each write.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an Engine over repo.
//
// Defaults: SystemClock, a MillisIDGenerator on the same clock, and
// slog.Default().
func New(repo *bills.Repository, opts ...Option) *Engine {
	e := &Engine{repo: repo}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.ids == nil {
		e.ids = NewMillisIDGenerator(e.clock)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// CreateBill stores a new PENDING bill for tableNo with the given items.
//
// Item names are normalized; items sharing a name are merged into one line
// with the quantities summed and the first unit price kept.
func (e *Engine) CreateBill(ctx context.Context, tableNo string, items []model.LineItem) (_ model.Bill, err error) {
	defer func() { e.metrics.ObserveOperation("create", err) }()

	table := model.NormalizeName(tableNo)
	if table == "" {
		return model.Bill{}, model.Errorf(model.ErrNoTableSelected, "no table selected")
	}
	if len(items) == 0 {
		return model.Bill{}, model.Errorf(model.ErrEmptyBill, "a bill needs at least one item")
	}

	merged := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		li, err := validateLineItem(item)
		if err != nil {
			return model.Bill{}, err
		}
		if i := slices.IndexFunc(merged, func(m model.LineItem) bool { return m.Name == li.Name }); i >= 0 {
			q, ok := model.AddQuantity(merged[i].Quantity, li.Quantity)
			if !ok {
				return model.Bill{}, quantityOverflow(li.Name)
			}
			merged[i].Quantity = q
			continue
		}
		merged = append(merged, li)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	all, err := e.repo.LoadAll(ctx)
	if err != nil {
		return model.Bill{}, fmt.Errorf("create bill: %w", err)
	}

	id := e.ids.Generate()
	for bills.IndexOf(all, id) >= 0 {
		id = e.ids.Generate()
	}

	bill := model.Bill{
		ID:        id,
		TableNo:   table,
		Items:     merged,
		Status:    model.StatusPending,
		CreatedAt: e.clock.Now(),
	}
	if err := bill.Recalculate(); err != nil {
		return model.Bill{}, err
	}

	all = append(all, bill)
	if err := e.repo.SaveAll(ctx, all); err != nil {
		return model.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	e.metrics.SetBills(all)

	e.logger.Info("bill created",
		"bill_id", bill.ID,
		"table", bill.TableNo,
		"items", len(bill.Items),
		"total", bill.TotalAmount)
	return bill.Clone(), nil
}

// AddItem adds one unit of name to a PENDING bill. An existing line with
// the same name has its quantity incremented and keeps its unit price;
// otherwise a new line is appended.
func (e *Engine) AddItem(ctx context.Context, billID, name string, unitPrice int64) (_ model.Bill, err error) {
	defer func() { e.metrics.ObserveOperation("add item", err) }()

	li, err := validateLineItem(model.LineItem{Name: name, UnitPrice: unitPrice, Quantity: 1})
	if err != nil {
		return model.Bill{}, err
	}

	return e.mutatePending(ctx, "add item", billID, func(b *model.Bill) error {
		if i := b.ItemIndex(li.Name); i >= 0 {
			q, ok := model.AddQuantity(b.Items[i].Quantity, 1)
			if !ok {
				return quantityOverflow(li.Name)
			}
			b.Items[i].Quantity = q
		} else {
			b.Items = append(b.Items, li)
		}
		e.logger.Debug("item added", "bill_id", b.ID, "name", li.Name)
		return nil
	})
}

// ChangeQuantity applies a signed delta to the line at index. A resulting
// quantity of zero or less removes the line. A delta that overflows the
// quantity or the bill total fails with InvalidQuantity.
func (e *Engine) ChangeQuantity(ctx context.Context, billID string, index int, delta int64) (_ model.Bill, err error) {
	defer func() { e.metrics.ObserveOperation("change quantity", err) }()

	return e.mutatePending(ctx, "change quantity", billID, func(b *model.Bill) error {
		if err := checkIndex(*b, index); err != nil {
			return err
		}
		q, ok := model.AddQuantity(b.Items[index].Quantity, delta)
		if !ok {
			return quantityOverflow(b.Items[index].Name)
		}
		applyQuantity(b, index, q)
		e.logger.Debug("quantity changed", "bill_id", b.ID, "index", index, "delta", delta)
		return nil
	})
}

// SetQuantity overwrites the quantity of the line at index. A quantity of
// zero or less removes the line. A quantity whose total overflows fails
// with InvalidQuantity.
func (e *Engine) SetQuantity(ctx context.Context, billID string, index int, quantity int64) (_ model.Bill, err error) {
	defer func() { e.metrics.ObserveOperation("set quantity", err) }()

	return e.mutatePending(ctx, "set quantity", billID, func(b *model.Bill) error {
		if err := checkIndex(*b, index); err != nil {
			return err
		}
		applyQuantity(b, index, quantity)
		e.logger.Debug("quantity set", "bill_id", b.ID, "index", index, "quantity", quantity)
		return nil
	})
}

// RemoveItem deletes the line at index. The bill stays PENDING even when
// its last line is removed.
func (e *Engine) RemoveItem(ctx context.Context, billID string, index int) (_ model.Bill, err error) {
	defer func() { e.metrics.ObserveOperation("remove item", err) }()

	return e.mutatePending(ctx, "remove item", billID, func(b *model.Bill) error {
		if err := checkIndex(*b, index); err != nil {
			return err
		}
		b.Items = slices.Delete(b.Items, index, index+1)
		e.logger.Debug("item removed", "bill_id", b.ID, "index", index)
		return nil
	})
}

// CompleteBill moves a PENDING bill to COMPLETED and stamps completedAt.
// Completing an already COMPLETED bill is a no-op that returns it unchanged.
func (e *Engine) CompleteBill(ctx context.Context, billID string) (_ model.Bill, err error) {
	defer func() { e.metrics.ObserveOperation("complete", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	all, i, err := e.load(ctx, "complete bill", billID)
	if err != nil {
		return model.Bill{}, err
	}
	if all[i].IsCompleted() {
		e.logger.Debug("bill already completed", "bill_id", billID)
		return all[i].Clone(), nil
	}

	updated := all[i].Clone()
	now := e.clock.Now()
	updated.Status = model.StatusCompleted
	updated.CompletedAt = &now
	all[i] = updated

	if err := e.repo.SaveAll(ctx, all); err != nil {
		return model.Bill{}, fmt.Errorf("complete bill: %w", err)
	}
	e.metrics.SetBills(all)

	e.logger.Info("bill completed",
		"bill_id", updated.ID,
		"table", updated.TableNo,
		"total", updated.TotalAmount)
	return updated.Clone(), nil
}

// CancelBill removes a bill from the collection and returns it.
//
// The engine removes the bill whatever its status. Callers that only want
// to cancel open orders must check IsPending first; removing a COMPLETED
// bill is logged at warn level.
func (e *Engine) CancelBill(ctx context.Context, billID string) (_ model.Bill, err error) {
	defer func() { e.metrics.ObserveOperation("cancel", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	all, i, err := e.load(ctx, "cancel bill", billID)
	if err != nil {
		return model.Bill{}, err
	}
	removed := all[i]

	all = slices.Delete(all, i, i+1)
	if err := e.repo.SaveAll(ctx, all); err != nil {
		return model.Bill{}, fmt.Errorf("cancel bill: %w", err)
	}
	e.metrics.SetBills(all)

	if removed.IsCompleted() {
		e.logger.Warn("completed bill removed", "bill_id", removed.ID, "table", removed.TableNo)
	} else {
		e.logger.Info("bill cancelled", "bill_id", removed.ID, "table", removed.TableNo)
	}
	return removed, nil
}

// mutatePending runs fn on a copy of a PENDING bill, recomputes its total
// and persists the collection. Nothing is written if fn fails.
func (e *Engine) mutatePending(ctx context.Context, op, billID string, fn func(*model.Bill) error) (model.Bill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	all, i, err := e.load(ctx, op, billID)
	if err != nil {
		return model.Bill{}, err
	}
	if !all[i].IsPending() {
		return model.Bill{}, model.Errorf(model.ErrBillNotPending,
			"bill %q is %s and can no longer be edited", billID, all[i].Status).
			WithDetail("bill_id", billID)
	}

	updated := all[i].Clone()
	if err := fn(&updated); err != nil {
		return model.Bill{}, err
	}
	if err := updated.Recalculate(); err != nil {
		return model.Bill{}, err
	}
	all[i] = updated

	if err := e.repo.SaveAll(ctx, all); err != nil {
		return model.Bill{}, fmt.Errorf("%s: %w", op, err)
	}
	e.metrics.SetBills(all)
	return updated.Clone(), nil
}

// load returns the whole collection and the index of billID in it.
func (e *Engine) load(ctx context.Context, op, billID string) ([]model.Bill, int, error) {
	all, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, -1, fmt.Errorf("%s: %w", op, err)
	}
	i := bills.IndexOf(all, billID)
	if i < 0 {
		return nil, -1, model.Errorf(model.ErrBillNotFound, "bill %q does not exist", billID).
			WithDetail("bill_id", billID)
	}
	return all, i, nil
}

func checkIndex(b model.Bill, index int) error {
	if index < 0 || index >= len(b.Items) {
		return model.Errorf(model.ErrItemIndexOutOfRange,
			"bill %q has no item at index %d (%d items)", b.ID, index, len(b.Items)).
			WithDetail("bill_id", b.ID)
	}
	return nil
}

// applyQuantity sets the quantity at index, removing the line when the new
// quantity is not positive.
func applyQuantity(b *model.Bill, index int, quantity int64) {
	if quantity <= 0 {
		b.Items = slices.Delete(b.Items, index, index+1)
		return
	}
	b.Items[index].Quantity = quantity
}

func quantityOverflow(name string) error {
	return model.Errorf(model.ErrInvalidQuantity, "item %q: quantity out of range", name)
}

func validateLineItem(item model.LineItem) (model.LineItem, error) {
	item.Name = model.NormalizeName(item.Name)
	if item.Name == "" {
		return model.LineItem{}, model.Errorf(model.ErrEmptyName, "item name is blank")
	}
	if item.UnitPrice < 1 {
		return model.LineItem{}, model.Errorf(model.ErrInvalidPrice,
			"item %q: price must be at least 1, got %d", item.Name, item.UnitPrice)
	}
	if item.Quantity < 1 {
		return model.LineItem{}, model.Errorf(model.ErrInvalidQuantity,
			"item %q: quantity must be at least 1, got %d", item.Name, item.Quantity)
	}
	return item, nil
}
