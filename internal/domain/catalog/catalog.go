// Package catalog holds the marketplace category taxonomy: top-level
// categories, each with its own subcategories.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/homico/browse/internal/domain"
)

//go:embed categories.yaml
var defaultTaxonomy []byte

// Subcategory is a leaf of the taxonomy.
type Subcategory struct {
	Key    string `yaml:"key" json:"key"`
	Name   string `yaml:"name" json:"name"`
	NameEn string `yaml:"name_en" json:"name_en"`
}

// Category is a top-level taxonomy entry.
type Category struct {
	Key           string        `yaml:"key" json:"key"`
	Name          string        `yaml:"name" json:"name"`
	NameEn        string        `yaml:"name_en" json:"name_en"`
	Icon          string        `yaml:"icon" json:"icon,omitempty"`
	Subcategories []Subcategory `yaml:"subcategories" json:"subcategories"`
}

// Catalog is an immutable, indexed taxonomy.
type Catalog struct {
	categories []Category
	byKey      map[string]int
	parentOf   map[string]string
}

type document struct {
	Categories []Category `yaml:"categories"`
}

// Default returns the taxonomy shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultTaxonomy)
}

// Parse decodes and validates a YAML taxonomy.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}

	return New(doc.Categories)
}

// New indexes and validates a taxonomy. Category keys must be unique, and a
// subcategory key may belong to one category only.
func New(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories: cloneCategories(categories),
		byKey:      make(map[string]int, len(categories)),
		parentOf:   make(map[string]string),
	}
	for i, cat := range c.categories {
		if cat.Key == "" {
			return nil, fmt.Errorf("%w: category #%d has no key", domain.ErrInvalidCatalog, i)
		}
		if _, dup := c.byKey[cat.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", domain.ErrInvalidCatalog, cat.Key)
		}
		c.byKey[cat.Key] = i
		for _, sub := range cat.Subcategories {
			if sub.Key == "" {
				return nil, fmt.Errorf("%w: subcategory without key in %q", domain.ErrInvalidCatalog, cat.Key)
			}
			if owner, dup := c.parentOf[sub.Key]; dup {
				return nil, fmt.Errorf("%w: subcategory %q listed under %q and %q",
					domain.ErrInvalidCatalog, sub.Key, owner, cat.Key)
			}
			c.parentOf[sub.Key] = cat.Key
		}
	}
	return c, nil
}

// Categories returns all top-level categories in taxonomy order.
func (c *Catalog) Categories() []Category {
	return cloneCategories(c.categories)
}

// Category returns a category by key.
func (c *Catalog) Category(key string) (Category, error) {
	i, ok := c.byKey[key]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", domain.ErrCategoryNotFound, key)
	}
	return cloneCategory(c.categories[i]), nil
}

// Subcategories returns the subcategories of a category.
func (c *Catalog) Subcategories(categoryKey string) ([]Subcategory, error) {
	cat, err := c.Category(categoryKey)
	if err != nil {
		return nil, err
	}
	return cat.Subcategories, nil
}

// ParentOf returns the category key owning a subcategory.
func (c *Catalog) ParentOf(subKey string) (string, bool) {
	p, ok := c.parentOf[subKey]
	return p, ok
}

func cloneCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, cat := range in {
		out[i] = cloneCategory(cat)
	}
	return out
}

func cloneCategory(cat Category) Category {
	cat.Subcategories = slices.Clone(cat.Subcategories)
	return cat
}
