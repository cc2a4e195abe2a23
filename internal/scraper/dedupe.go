package scraper

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/user/storefront-catalog/internal/entity"
)

// Dedupe keeps the first product seen for each (category, slug) pair.
func Dedupe(products []entity.Product) []entity.Product {
	seen := make(map[string]bool, len(products))
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		key := string(p.Category) + ":" + p.Slug
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// SortByName orders products by name using Spanish collation. Equal names keep
// their relative order.
func SortByName(products []entity.Product) {
	c := collate.New(language.Spanish)
	sort.SliceStable(products, func(i, j int) bool {
		return c.CompareString(products[i].Name, products[j].Name) < 0
	})
}

// AssignIDs numbers products p_000001, p_000002, ... in slice order.
func AssignIDs(products []entity.Product) {
	for i := range products {
		products[i].ID = fmt.Sprintf("p_%06d", i+1)
	}
}

// Normalize dedupes, sorts and numbers the products of a whole run.
func Normalize(products []entity.Product) []entity.Product {
	out := Dedupe(products)
	SortByName(out)
	AssignIDs(out)
	return out
}
