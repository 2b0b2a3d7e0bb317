package catalog

import (
	"strconv"

	"github.com/roach88/cafebill/internal/model"
)

// DefaultTableCount is the number of tables a fresh registry contains,
// numbered "1" through "14".
const DefaultTableCount = 14

// DefaultMenu returns a fresh copy of the built-in menu.
func DefaultMenu() model.Menu {
	return model.NewMenu(
		model.Category{Key: "coffee", Products: []model.Product{
			{Name: "Espresso", Price: 80},
			{Name: "Cappuccino", Price: 120},
			{Name: "Latte", Price: 130},
			{Name: "Americano", Price: 100},
			{Name: "Cold Coffee", Price: 110},
		}},
		model.Category{Key: "snacks", Products: []model.Product{
			{Name: "Samosa", Price: 30},
			{Name: "Sandwich", Price: 60},
			{Name: "Croissant", Price: 70},
			{Name: "Cake Slice", Price: 80},
			{Name: "Cookies", Price: 40},
		}},
		model.Category{Key: "meals", Products: []model.Product{
			{Name: "Pasta", Price: 150},
			{Name: "Burger", Price: 120},
			{Name: "Pizza Slice", Price: 100},
			{Name: "Soup", Price: 90},
			{Name: "Salad", Price: 110},
		}},
	)
}

// DefaultTables returns a fresh copy of the built-in table registry.
func DefaultTables() []string {
	tables := make([]string, DefaultTableCount)
	for i := range tables {
		tables[i] = strconv.Itoa(i + 1)
	}
	return tables
}
