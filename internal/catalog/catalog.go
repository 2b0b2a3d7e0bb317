package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/cafebill/internal/model"
	"github.com/roach88/cafebill/internal/store"
)

// Store reads and writes the menu and table registry.
type Store struct {
	kv     store.KV
	logger *slog.Logger
}

// New returns a catalog Store backed by kv. A nil logger uses slog.Default().
func New(kv store.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// GetMenu returns the persisted menu, or a fresh default menu if none has
// been saved yet.
func (s *Store) GetMenu(ctx context.Context) (model.Menu, error) {
	var menu model.Menu
	ok, err := store.GetJSON(ctx, s.kv, store.KeyMenu, &menu)
	if err != nil {
		return model.Menu{}, fmt.Errorf("get menu: %w", err)
	}
	if !ok {
		return DefaultMenu(), nil
	}
	return menu, nil
}

// SaveMenu replaces the persisted menu.
func (s *Store) SaveMenu(ctx context.Context, menu model.Menu) error {
	if err := store.PutJSON(ctx, s.kv, store.KeyMenu, menu); err != nil {
		return fmt.Errorf("save menu: %w", err)
	}
	return nil
}

// GetTables returns the table registry, repairing it if a default table is
// missing.
func (s *Store) GetTables(ctx context.Context) ([]string, error) {
	var tables []string
	ok, err := store.GetJSON(ctx, s.kv, store.KeyTables, &tables)
	if err != nil {
		return nil, fmt.Errorf("get tables: %w", err)
	}
	if !ok {
		return DefaultTables(), nil
	}

	repaired, changed := mergeDefaults(tables)
	if !changed {
		return tables, nil
	}

	SortTables(repaired)
	if err := s.SaveTables(ctx, repaired); err != nil {
		return nil, fmt.Errorf("get tables: persist repair: %w", err)
	}
	s.logger.Warn("table registry repaired",
		"stored", len(tables),
		"restored", len(repaired)-len(tables))
	return repaired, nil
}

// SaveTables replaces the persisted table registry.
func (s *Store) SaveTables(ctx context.Context, tables []string) error {
	if tables == nil {
		tables = []string{}
	}
	if err := store.PutJSON(ctx, s.kv, store.KeyTables, tables); err != nil {
		return fmt.Errorf("save tables: %w", err)
	}
	return nil
}

// AddCategory creates an empty category and returns its key.
func (s *Store) AddCategory(ctx context.Context, name string) (string, error) {
	key := model.CategoryKey(name)
	if key == "" {
		return "", model.Errorf(model.ErrEmptyName, "category name is blank")
	}

	menu, err := s.GetMenu(ctx)
	if err != nil {
		return "", err
	}
	if menu.Has(key) {
		return "", model.Errorf(model.ErrDuplicateCategory, "category %q already exists", key).
			WithDetail("category", key)
	}

	menu.Set(key, nil)
	if err := s.SaveMenu(ctx, menu); err != nil {
		return "", err
	}
	s.logger.Info("category added", "category", key)
	return key, nil
}

// AddProduct appends a product to a category.
func (s *Store) AddProduct(ctx context.Context, categoryKey, name string, price int64) error {
	menu, products, err := s.loadCategory(ctx, categoryKey)
	if err != nil {
		return err
	}
	product, err := newProduct(name, price)
	if err != nil {
		return err
	}

	menu.Set(categoryKey, append(products, product))
	if err := s.SaveMenu(ctx, menu); err != nil {
		return err
	}
	s.logger.Info("product added", "category", categoryKey, "name", product.Name, "price", product.Price)
	return nil
}

// EditProduct replaces the name and price of the product at index,
// keeping its position.
func (s *Store) EditProduct(ctx context.Context, categoryKey string, index int, name string, price int64) error {
	menu, products, err := s.loadCategory(ctx, categoryKey)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(products) {
		return model.Errorf(model.ErrItemIndexOutOfRange,
			"category %q has no product at index %d", categoryKey, index).
			WithDetail("category", categoryKey)
	}
	product, err := newProduct(name, price)
	if err != nil {
		return err
	}

	products[index] = product
	menu.Set(categoryKey, products)
	if err := s.SaveMenu(ctx, menu); err != nil {
		return err
	}
	s.logger.Info("product edited", "category", categoryKey, "index", index, "name", product.Name)
	return nil
}

// RemoveProduct deletes the product at index. An unknown category or index
// is ignored.
func (s *Store) RemoveProduct(ctx context.Context, categoryKey string, index int) error {
	menu, err := s.GetMenu(ctx)
	if err != nil {
		return err
	}
	products, ok := menu.Products(categoryKey)
	if !ok || index < 0 || index >= len(products) {
		s.logger.Debug("remove product ignored", "category", categoryKey, "index", index)
		return nil
	}

	menu.Set(categoryKey, slices.Delete(products, index, index+1))
	if err := s.SaveMenu(ctx, menu); err != nil {
		return err
	}
	s.logger.Info("product removed", "category", categoryKey, "index", index)
	return nil
}

// DeleteCategory removes a category and all of its products. An unknown
// category is ignored.
func (s *Store) DeleteCategory(ctx context.Context, categoryKey string) error {
	menu, err := s.GetMenu(ctx)
	if err != nil {
		return err
	}
	if !menu.Delete(categoryKey) {
		s.logger.Debug("delete category ignored", "category", categoryKey)
		return nil
	}
	if err := s.SaveMenu(ctx, menu); err != nil {
		return err
	}
	s.logger.Info("category deleted", "category", categoryKey)
	return nil
}

// AddTable appends a table identifier to the registry.
func (s *Store) AddTable(ctx context.Context, value string) error {
	table := model.NormalizeName(value)
	if table == "" {
		return model.Errorf(model.ErrEmptyName, "table identifier is blank")
	}

	tables, err := s.GetTables(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(tables, table) {
		return model.Errorf(model.ErrDuplicateTable, "table %q already exists", table).
			WithDetail("table", table)
	}

	if err := s.SaveTables(ctx, append(tables, table)); err != nil {
		return err
	}
	s.logger.Info("table added", "table", table)
	return nil
}

func (s *Store) loadCategory(ctx context.Context, categoryKey string) (model.Menu, []model.Product, error) {
	menu, err := s.GetMenu(ctx)
	if err != nil {
		return model.Menu{}, nil, err
	}
	products, ok := menu.Products(categoryKey)
	if !ok {
		return model.Menu{}, nil, model.Errorf(model.ErrUnknownCategory,
			"category %q does not exist", categoryKey).
			WithDetail("category", categoryKey)
	}
	return menu, products, nil
}

func newProduct(name string, price int64) (model.Product, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return model.Product{}, model.Errorf(model.ErrEmptyName, "product name is blank")
	}
	if price < 1 {
		return model.Product{}, model.Errorf(model.ErrInvalidPrice, "price must be at least 1, got %d", price)
	}
	return model.Product{Name: name, Price: price}, nil
}
