package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cafebill/internal/model"
)

func TestJSONHelpers_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range map[string]KV{
		"sqlite": createTestStore(t),
		"memory": NewMemoryStore(),
	} {
		t.Run(name, func(t *testing.T) {
			menu := model.NewMenu(
				model.Category{Key: "snacks", Products: []model.Product{{Name: "Samosa", Price: 30}}},
				model.Category{Key: "coffee", Products: []model.Product{{Name: "Latte", Price: 130}}},
			)
			require.NoError(t, PutJSON(ctx, kv, KeyMenu, menu))

			var got model.Menu
			ok, err := GetJSON(ctx, kv, KeyMenu, &got)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []string{"snacks", "coffee"}, got.Keys())
		})
	}
}

func TestGetJSON_Absent(t *testing.T) {
	var tables []string
	ok, err := GetJSON(context.Background(), NewMemoryStore(), KeyTables, &tables)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tables)
}

func TestGetJSON_CorruptIsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	require.NoError(t, kv.Put(ctx, KeyBills, []byte(`{not json`)))

	var bills []model.Bill
	_, err := GetJSON(ctx, kv, KeyBills, &bills)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidSnapshot))
	assert.True(t, model.IsKind(err, model.KindInvalidSnapshot))
}
