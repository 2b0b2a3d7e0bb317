package harness

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/roach88/cafebill/internal/model"
)

// actionFunc runs one scenario action and returns its completion result.
type actionFunc func(ctx context.Context, h *Harness, args map[string]any) (any, error)

// actions maps the scenario action names to engine and catalog calls.
// Item positions are 0-based, as in the engine.
var actions = map[string]actionFunc{
	"Bills.create": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		table, err := argString(args, "table")
		if err != nil {
			return nil, err
		}
		items, err := argItems(args, "items")
		if err != nil {
			return nil, err
		}
		return h.engine.CreateBill(ctx, table, items)
	},
	"Bills.addItem": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		id, name, err := argPair(args, "bill", "name")
		if err != nil {
			return nil, err
		}
		price, err := argInt(args, "price")
		if err != nil {
			return nil, err
		}
		return h.engine.AddItem(ctx, id, name, price)
	},
	"Bills.changeQuantity": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		id, index, n, err := argIndexed(args, "delta")
		if err != nil {
			return nil, err
		}
		return h.engine.ChangeQuantity(ctx, id, index, n)
	},
	"Bills.setQuantity": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		id, index, n, err := argIndexed(args, "quantity")
		if err != nil {
			return nil, err
		}
		return h.engine.SetQuantity(ctx, id, index, n)
	},
	"Bills.removeItem": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		id, err := argString(args, "bill")
		if err != nil {
			return nil, err
		}
		index, err := argIndex(args)
		if err != nil {
			return nil, err
		}
		return h.engine.RemoveItem(ctx, id, index)
	},
	"Bills.complete": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		id, err := argString(args, "bill")
		if err != nil {
			return nil, err
		}
		return h.engine.CompleteBill(ctx, id)
	},
	"Bills.cancel": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		id, err := argString(args, "bill")
		if err != nil {
			return nil, err
		}
		return h.engine.CancelBill(ctx, id)
	},
	"Bills.prune": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		days, err := argInt(args, "days")
		if err != nil {
			return nil, err
		}
		removed, err := h.repo.DeleteOlderThan(ctx, h.clock.Now(), int(days))
		if err != nil {
			return nil, err
		}
		return map[string]any{"removed": removed}, nil
	},
	"Bills.reset": func(ctx context.Context, h *Harness, _ map[string]any) (any, error) {
		return nil, h.repo.DeleteAll(ctx)
	},
	"Menu.addCategory": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		name, err := argString(args, "name")
		if err != nil {
			return nil, err
		}
		key, err := h.catalog.AddCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		return map[string]any{"key": key}, nil
	},
	"Menu.addProduct": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		category, name, err := argPair(args, "category", "name")
		if err != nil {
			return nil, err
		}
		price, err := argInt(args, "price")
		if err != nil {
			return nil, err
		}
		return nil, h.catalog.AddProduct(ctx, category, name, price)
	},
	"Menu.editProduct": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		category, name, err := argPair(args, "category", "name")
		if err != nil {
			return nil, err
		}
		index, err := argIndex(args)
		if err != nil {
			return nil, err
		}
		price, err := argInt(args, "price")
		if err != nil {
			return nil, err
		}
		return nil, h.catalog.EditProduct(ctx, category, index, name, price)
	},
	"Menu.removeProduct": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		category, err := argString(args, "category")
		if err != nil {
			return nil, err
		}
		index, err := argIndex(args)
		if err != nil {
			return nil, err
		}
		return nil, h.catalog.RemoveProduct(ctx, category, index)
	},
	"Menu.deleteCategory": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		category, err := argString(args, "category")
		if err != nil {
			return nil, err
		}
		return nil, h.catalog.DeleteCategory(ctx, category)
	},
	"Tables.add": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		table, err := argString(args, "table")
		if err != nil {
			return nil, err
		}
		return nil, h.catalog.AddTable(ctx, table)
	},
	"Tables.save": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		tables, err := argStrings(args, "tables")
		if err != nil {
			return nil, err
		}
		return nil, h.catalog.SaveTables(ctx, tables)
	},
	"Tables.get": func(ctx context.Context, h *Harness, _ map[string]any) (any, error) {
		tables, err := h.catalog.GetTables(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"tables": tables}, nil
	},
	"Clock.advance": func(_ context.Context, h *Harness, args map[string]any) (any, error) {
		raw, err := argString(args, "by")
		if err != nil {
			return nil, err
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("arg %q: %w", "by", err)
		}
		h.clock.Advance(d)
		return nil, nil
	},
}

func knownAction(name string) bool {
	_, ok := actions[name]
	return ok
}

func argString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing arg %q", key)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case int, int64:
		// YAML reads unquoted table numbers as integers.
		return fmt.Sprint(s), nil
	default:
		return "", fmt.Errorf("arg %q: want string, got %T", key, v)
	}
}

func argPair(args map[string]any, a, b string) (string, string, error) {
	first, err := argString(args, a)
	if err != nil {
		return "", "", err
	}
	second, err := argString(args, b)
	if err != nil {
		return "", "", err
	}
	return first, second, nil
}

func argInt(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing arg %q", key)
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("arg %q: want integer, got %v (%T)", key, v, v)
	}
	return n, nil
}

func argIndex(args map[string]any) (int, error) {
	n, err := argInt(args, "index")
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// argIndexed reads the bill, index and the named integer argument.
func argIndexed(args map[string]any, key string) (string, int, int64, error) {
	id, err := argString(args, "bill")
	if err != nil {
		return "", 0, 0, err
	}
	index, err := argIndex(args)
	if err != nil {
		return "", 0, 0, err
	}
	n, err := argInt(args, key)
	if err != nil {
		return "", 0, 0, err
	}
	return id, index, n, nil
}

func argStrings(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key].([]any)
	if !ok {
		return nil, fmt.Errorf("arg %q: want list", key)
	}
	out := make([]string, 0, len(raw))
	for i, v := range raw {
		s, err := argString(map[string]any{"v": v}, "v")
		if err != nil {
			return nil, fmt.Errorf("arg %q[%d]: %w", key, i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func argItems(args map[string]any, key string) ([]model.LineItem, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("arg %q: want list of items", key)
	}

	items := make([]model.LineItem, 0, len(list))
	for i, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("arg %q[%d]: want mapping", key, i)
		}
		name, err := argString(m, "name")
		if err != nil {
			return nil, fmt.Errorf("arg %q[%d]: %w", key, i, err)
		}
		price, err := argInt(m, "price")
		if err != nil {
			return nil, fmt.Errorf("arg %q[%d]: %w", key, i, err)
		}
		qty := int64(1)
		if _, ok := m["quantity"]; ok {
			if qty, err = argInt(m, "quantity"); err != nil {
				return nil, fmt.Errorf("arg %q[%d]: %w", key, i, err)
			}
		}
		items = append(items, model.LineItem{Name: name, UnitPrice: price, Quantity: qty})
	}
	return items, nil
}

// toInt64 accepts the integer shapes YAML and JSON decoding produce.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
