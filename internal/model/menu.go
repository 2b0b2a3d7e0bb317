package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category is one menu section: a normalized key and its products in
// display order.
type Category struct {
	Key      string
	Products []Product
}

// Menu maps category keys to ordered product lists. Category order is
// insertion order, which is also display order; both JSON and YAML
// encodings preserve it.
//
// The zero value is an empty menu.
type Menu struct {
	categories []Category
}

// NewMenu builds a menu from categories in the given order.
// Later duplicates of a key replace the earlier product list in place.
func NewMenu(categories ...Category) Menu {
	var m Menu
	for _, c := range categories {
		m.Set(c.Key, c.Products)
	}
	return m
}

// Len returns the number of categories.
func (m Menu) Len() int {
	return len(m.categories)
}

// Keys returns category keys in display order.
func (m Menu) Keys() []string {
	keys := make([]string, len(m.categories))
	for i, c := range m.categories {
		keys[i] = c.Key
	}
	return keys
}

// Has reports whether the category exists.
func (m Menu) Has(key string) bool {
	return m.index(key) >= 0
}

// Products returns a copy of the category's products.
func (m Menu) Products(key string) ([]Product, bool) {
	i := m.index(key)
	if i < 0 {
		return nil, false
	}
	out := make([]Product, len(m.categories[i].Products))
	copy(out, m.categories[i].Products)
	return out, true
}

// Categories returns a deep copy of all categories in display order.
func (m Menu) Categories() []Category {
	return m.Clone().categories
}

// Set replaces the products of an existing category or appends a new one.
func (m *Menu) Set(key string, products []Product) {
	cp := make([]Product, len(products))
	copy(cp, products)
	if i := m.index(key); i >= 0 {
		m.categories[i].Products = cp
		return
	}
	m.categories = append(m.categories, Category{Key: key, Products: cp})
}

// Delete removes a category and all its products.
// Returns false if the category did not exist.
func (m *Menu) Delete(key string) bool {
	i := m.index(key)
	if i < 0 {
		return false
	}
	m.categories = append(m.categories[:i], m.categories[i+1:]...)
	return true
}

// Clone returns a deep copy.
func (m Menu) Clone() Menu {
	out := Menu{categories: make([]Category, len(m.categories))}
	for i, c := range m.categories {
		products := make([]Product, len(c.Products))
		copy(products, c.Products)
		out.categories[i] = Category{Key: c.Key, Products: products}
	}
	return out
}

func (m Menu) index(key string) int {
	for i, c := range m.categories {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// MarshalJSON encodes the menu as a JSON object with keys in display order.
func (m Menu) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range m.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Key)
		if err != nil {
			return nil, fmt.Errorf("marshal menu key %q: %w", c.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')

		products := c.Products
		if products == nil {
			products = []Product{}
		}
		val, err := json.Marshal(products)
		if err != nil {
			return nil, fmt.Errorf("marshal menu category %q: %w", c.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (m *Menu) UnmarshalJSON(data []byte) error {
	m.categories = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("unmarshal menu: %w", err)
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("unmarshal menu: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("unmarshal menu: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unmarshal menu: expected key, got %v", keyTok)
		}
		var products []Product
		if err := dec.Decode(&products); err != nil {
			return fmt.Errorf("unmarshal menu category %q: %w", key, err)
		}
		m.Set(key, products)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("unmarshal menu: %w", err)
	}
	return nil
}

// MarshalYAML encodes the menu as a YAML mapping with keys in display order.
func (m Menu) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range m.categories {
		products := c.Products
		if products == nil {
			products = []Product{}
		}
		var val yaml.Node
		if err := val.Encode(products); err != nil {
			return nil, fmt.Errorf("marshal menu category %q: %w", c.Key, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Key}
		node.Content = append(node.Content, key, &val)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, keeping the key order of the input.
func (m *Menu) UnmarshalYAML(value *yaml.Node) error {
	m.categories = nil
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("unmarshal menu: line %d: expected mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		var products []Product
		if err := value.Content[i+1].Decode(&products); err != nil {
			return fmt.Errorf("unmarshal menu category %q: %w", key, err)
		}
		m.Set(key, products)
	}
	return nil
}
