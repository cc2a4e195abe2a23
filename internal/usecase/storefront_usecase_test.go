package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/entity"
)

func storefrontCatalog() *memoryCatalog {
	return &memoryCatalog{products: []entity.Product{
		{ID: "1", Slug: "iphone-13", Name: "iPhone 13", Description: "Cámara dual", Category: entity.CategoryTechnology, Featured: true},
		{ID: "2", Slug: "camiseta", Name: "Camiseta", Description: "Algodón", Category: entity.CategoryClothing},
		{ID: "3", Slug: "tenis", Name: "Tenis", Description: "Cuero", Category: entity.CategoryShoes, Featured: true},
		{ID: "4", Slug: "casco", Name: "Casco", Description: "Certificado", Category: entity.CategoryBikes},
		{ID: "5", Slug: "borrador", Name: "Cámara borrador", Category: entity.CategoryTechnology, Draft: true},
	}}
}

func slugs(products []entity.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Slug
	}
	return out
}

func TestStorefrontList(t *testing.T) {
	sf := NewStorefront(storefrontCatalog(), nil, 0, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		filter ProductFilter
		want   string
	}{
		{ProductFilter{}, "[iphone-13 camiseta tenis casco]"},
		{ProductFilter{Section: "Ropa"}, "[camiseta tenis]"},
		{ProductFilter{Section: "bicicletas"}, "[casco]"},
		{ProductFilter{Section: "desconocida"}, "[iphone-13 camiseta tenis casco]"},
		{ProductFilter{FeaturedOnly: true}, "[iphone-13 tenis]"},
		{ProductFilter{Section: "tecnologia", FeaturedOnly: true}, "[iphone-13]"},
	}
	for _, tt := range tests {
		got, err := sf.List(ctx, tt.filter)
		if err != nil {
			t.Fatalf("List(%+v) error = %v", tt.filter, err)
		}
		if s := fmt.Sprint(slugs(got)); s != tt.want {
			t.Errorf("List(%+v) = %s, want %s", tt.filter, s, tt.want)
		}
	}
}

func TestStorefrontGetBySlug(t *testing.T) {
	sf := NewStorefront(storefrontCatalog(), nil, 0, zap.NewNop())
	ctx := context.Background()

	p, err := sf.GetBySlug(ctx, "tenis")
	if err != nil || p.ID != "3" {
		t.Fatalf("GetBySlug(tenis) = %+v, %v", p, err)
	}
	if _, err := sf.GetBySlug(ctx, "borrador"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("draft must not be served: %v", err)
	}
	if _, err := sf.GetBySlug(ctx, "nope"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("missing slug: %v", err)
	}
}

func TestStorefrontSearch(t *testing.T) {
	sf := NewStorefront(storefrontCatalog(), nil, 0, zap.NewNop())
	ctx := context.Background()

	got, _ := sf.Search(ctx, "  CAMARA ")
	if s := fmt.Sprint(slugs(got)); s != "[iphone-13]" {
		t.Errorf("Search(CAMARA) = %s", s)
	}
	got, _ = sf.Search(ctx, "algodon")
	if s := fmt.Sprint(slugs(got)); s != "[camiseta]" {
		t.Errorf("Search(algodon) = %s", s)
	}
	got, _ = sf.Search(ctx, "cmst")
	if s := fmt.Sprint(slugs(got)); s != "[camiseta]" {
		t.Errorf("fuzzy Search(cmst) = %s", s)
	}
	if got, _ := sf.Search(ctx, "   "); len(got) != 0 {
		t.Errorf("blank query returned %d results", len(got))
	}
}

func TestStorefrontSearchLimit(t *testing.T) {
	catalog := &memoryCatalog{}
	for i := 0; i < 20; i++ {
		catalog.products = append(catalog.products, entity.Product{
			ID: fmt.Sprint(i), Slug: fmt.Sprintf("gorra-%d", i), Name: fmt.Sprintf("Gorra %d", i),
		})
	}
	got, _ := NewStorefront(catalog, nil, 0, zap.NewNop()).Search(context.Background(), "gorra")
	if len(got) != searchLimit || got[0].Slug != "gorra-0" {
		t.Fatalf("Search returned %d results starting at %v", len(got), slugs(got[:1]))
	}
}

func TestStorefrontUsesCache(t *testing.T) {
	catalog := storefrontCatalog()
	cache := &fakeCache{}
	sf := NewStorefront(catalog, cache, 0, zap.NewNop())
	ctx := context.Background()

	if _, err := sf.List(ctx, ProductFilter{}); err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache filled %d times, want 1", cache.sets)
	}

	catalog.products = nil
	got, _ := sf.List(ctx, ProductFilter{})
	if len(got) != 4 {
		t.Errorf("cached catalog not used, got %d products", len(got))
	}
}

func TestStorefrontSkipsStaleCacheFill(t *testing.T) {
	catalog := storefrontCatalog()
	cache := &fakeCache{}
	admin := NewCatalogAdmin(catalog, cache, zap.NewNop())
	sf := NewStorefront(catalog, cache, 0, zap.NewNop())
	ctx := context.Background()

	// An admin write lands between the storefront load and its cache fill.
	catalog.afterLoad = func() {
		catalog.afterLoad = nil
		if err := admin.Delete(ctx, "1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
	}
	if _, err := sf.List(ctx, ProductFilter{}); err != nil {
		t.Fatal(err)
	}
	if cache.present {
		t.Fatalf("stale catalog cached after a concurrent write: %d products", len(cache.products))
	}

	got, _ := sf.List(ctx, ProductFilter{})
	for _, p := range got {
		if p.ID == "1" {
			t.Fatal("deleted product still served")
		}
	}
	if !cache.present {
		t.Error("cache not filled once the catalog settled")
	}
}
