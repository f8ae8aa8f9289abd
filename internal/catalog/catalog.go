// Package catalog holds the products a storefront offers and the category
// filter and text search shoppers use to narrow them.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/shopcart/internal/model"
)

// AllCategories selects every product in Filter.
const AllCategories = "all"

var ErrProductNotFound = errors.New("product not found")

//go:embed catalogs/*.yaml
var builtin embed.FS

// Catalog is an ordered product list for one site.
type Catalog struct {
	Site     string          `yaml:"site"`
	Products []model.Product `yaml:"products"`
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parse(b, path)
}

// Default returns the built-in demo catalog for site.
func Default(site string) (*Catalog, error) {
	b, err := builtin.ReadFile("catalogs/" + site + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no built-in catalog for %q", site)
	}
	return parse(b, site)
}

// ForSite loads path when set, else the built-in catalog for site.
func ForSite(site, path string) (*Catalog, error) {
	if path != "" {
		return Load(path)
	}
	return Default(site)
}

func parse(b []byte, src string) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", src, err)
	}
	for i, p := range c.Products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("catalog %s: product %d has no name", src, i+1)
		}
	}
	return &c, nil
}

// Filter returns products in category. "" and "all" return everything.
func (c *Catalog) Filter(category string) []model.Product {
	if category == "" || category == AllCategories {
		return c.all()
	}
	var out []model.Product
	for _, p := range c.Products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search returns products whose name, description or category contains
// term, ignoring case. An empty term matches everything.
func (c *Catalog) Search(term string) []model.Product {
	term = strings.ToLower(term)
	if term == "" {
		return c.all()
	}
	var out []model.Product
	for _, p := range c.Products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range c.Products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// Find looks a product up by exact name.
func (c *Catalog) Find(name string) (model.Product, error) {
	for _, p := range c.Products {
		if p.Name == name {
			return p, nil
		}
	}
	return model.Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, name)
}

func (c *Catalog) all() []model.Product {
	out := make([]model.Product, len(c.Products))
	copy(out, c.Products)
	return out
}
