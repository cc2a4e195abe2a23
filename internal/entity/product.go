package entity

// Category is one of the fixed catalog buckets a product belongs to.
type Category string

const (
	CategoryTechnology    Category = "technology"
	CategoryClothing      Category = "clothing"
	CategoryShoes         Category = "shoes"
	CategoryBikes         Category = "bikes"
	CategoryUncategorized Category = "sincategoria"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryClothing,
	CategoryShoes,
	CategoryBikes,
	CategoryUncategorized,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Variants holds the size and color options detected or edited for a product.
type Variants struct {
	Color []string `json:"color,omitempty"`
	Size  []string `json:"size,omitempty"`
}

// Product mirrors one record of the catalog JSON document.
type Product struct {
	ID            string         `json:"id"`
	Slug          string         `json:"slug"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Price         int64          `json:"price"`
	PreviousPrice *int64         `json:"previousPrice,omitempty"`
	Images        []string       `json:"images"`
	Category      Category       `json:"category"`
	Featured      bool           `json:"featured"`
	Draft         bool           `json:"draft,omitempty"`
	Variants      *Variants      `json:"variants,omitempty"`
	Attributes    map[string]any `json:"attributes,omitempty"`
}

// ProductInput is a partial product as sent by the admin panel. Nil fields are
// treated as "not provided".
type ProductInput struct {
	ID            *string        `json:"id,omitempty"`
	Slug          *string        `json:"slug,omitempty"`
	Name          *string        `json:"name,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Price         *float64       `json:"price,omitempty"`
	PreviousPrice *float64       `json:"previousPrice,omitempty"`
	Images        []string       `json:"images,omitempty"`
	Category      *string        `json:"category,omitempty"`
	Featured      *bool          `json:"featured,omitempty"`
	Draft         *bool          `json:"draft,omitempty"`
	Variants      *Variants      `json:"variants,omitempty"`
	Attributes    map[string]any `json:"attributes,omitempty"`
}
