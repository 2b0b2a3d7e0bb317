package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/cafebill/internal/model"
)

// parseItemSpec reads one item argument of bills create:
//
//	Name=price        one unit at price
//	Name=pricexqty    qty units at price
//	category/pos      one unit of the menu product at 1-based pos
//	category/posxqty  qty units of that product
func parseItemSpec(spec string, menu model.Menu) (model.LineItem, error) {
	if name, rest, ok := cutLast(spec, "="); ok {
		priceStr, qtyStr, hasQty := strings.Cut(rest, "x")
		price, err := model.ParsePrice(priceStr)
		if err != nil {
			return model.LineItem{}, err
		}
		qty, err := parseItemQuantity(qtyStr, hasQty)
		if err != nil {
			return model.LineItem{}, err
		}
		return model.LineItem{Name: name, UnitPrice: price, Quantity: qty}, nil
	}

	if category, rest, ok := cutLast(spec, "/"); ok {
		posStr, qtyStr, hasQty := strings.Cut(rest, "x")
		product, err := lookupProduct(menu, category, posStr)
		if err != nil {
			return model.LineItem{}, err
		}
		qty, err := parseItemQuantity(qtyStr, hasQty)
		if err != nil {
			return model.LineItem{}, err
		}
		return model.LineItem{Name: product.Name, UnitPrice: product.Price, Quantity: qty}, nil
	}

	return model.LineItem{}, NewExitError(ExitCommandError,
		fmt.Sprintf("invalid item %q: want Name=price[xqty] or category/position[xqty]", spec))
}

func parseItemQuantity(s string, present bool) (int64, error) {
	if !present {
		return 1, nil
	}
	qty, err := model.ParseQuantity(s)
	if err != nil {
		return 0, err
	}
	if qty < 1 {
		return 0, model.Errorf(model.ErrInvalidQuantity, "quantity must be at least 1, got %d", qty)
	}
	return qty, nil
}

// lookupProduct resolves a category key and 1-based position against menu.
func lookupProduct(menu model.Menu, category, pos string) (model.Product, error) {
	key := model.CategoryKey(category)
	products, ok := menu.Products(key)
	if !ok {
		return model.Product{}, model.Errorf(model.ErrUnknownCategory, "category %q does not exist", key).
			WithDetail("category", key)
	}
	index, err := model.ParsePosition(pos)
	if err != nil {
		return model.Product{}, err
	}
	if index >= len(products) {
		return model.Product{}, model.Errorf(model.ErrItemIndexOutOfRange,
			"category %q has %d products, no position %d", key, len(products), index+1).
			WithDetail("category", key)
	}
	return products[index], nil
}

// cutLast splits s around the last sep.
func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
