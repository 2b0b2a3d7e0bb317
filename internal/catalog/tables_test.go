package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cafebill/internal/model"
	"github.com/roach88/cafebill/internal/store"
)

func TestGetTables_DefaultWhenUnset(t *testing.T) {
	c, kv := newTestCatalog(t)

	tables, err := c.GetTables(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables, DefaultTableCount)
	assert.Equal(t, "1", tables[0])
	assert.Equal(t, "14", tables[13])
	assert.Empty(t, kv.Keys())
}

func TestGetTables_RepairsMissingDefault(t *testing.T) {
	c, kv := newTestCatalog(t)
	ctx := context.Background()

	stored := []string{"1", "2", "3", "4", "5", "6", "8", "9", "10", "11", "12", "13", "14", "15"}
	require.NoError(t, c.SaveTables(ctx, stored))

	tables, err := c.GetTables(ctx)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15"},
		tables)

	assert.Equal(t, `["1","2","3","4","5","6","7","8","9","10","11","12","13","14","15"]`,
		rawRecord(t, kv, store.KeyTables), "repair is persisted")
}

func TestGetTables_NoRepairKeepsStoredOrder(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	stored := append([]string{"Patio"}, DefaultTables()...)
	require.NoError(t, c.SaveTables(ctx, stored))

	tables, err := c.GetTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, tables)
}

func TestSortTables(t *testing.T) {
	tables := []string{"Patio", "10", "2", "Bar", "1"}
	SortTables(tables)
	assert.Equal(t, []string{"1", "2", "10", "Bar", "Patio"}, tables)
}

func TestSortTables_ExtremeNumbers(t *testing.T) {
	tables := []string{"9223372036854775807", "3", "-5", "-9223372036854775808"}
	SortTables(tables)
	assert.Equal(t, []string{"-9223372036854775808", "-5", "3", "9223372036854775807"}, tables)
}

func TestAddTable(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.AddTable(ctx, " 15 "))

	tables, err := c.GetTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, "15", tables[len(tables)-1])

	err = c.AddTable(ctx, "15")
	assert.True(t, errors.Is(err, model.ErrDuplicateTable))

	err = c.AddTable(ctx, "3")
	assert.True(t, errors.Is(err, model.ErrDuplicateTable))

	err = c.AddTable(ctx, "  ")
	assert.True(t, errors.Is(err, model.ErrEmptyName))
}
