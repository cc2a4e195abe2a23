package usecase

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
	"github.com/user/storefront-catalog/internal/scraper"
)

var (
	ErrSlugConflict    = errors.New("a product with that slug already exists")
	ErrProductNotFound = errors.New("product not found")
	ErrMissingID       = errors.New("product id is required")
)

const defaultProductName = "Producto sin nombre"

// CatalogAdmin defines the catalog management operations of the admin panel.
type CatalogAdmin interface {
	List(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, in entity.ProductInput) (*entity.Product, error)
	Update(ctx context.Context, in entity.ProductInput) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) ([]entity.Product, error)
}

type catalogAdminUseCase struct {
	catalog repository.CatalogRepository
	cache   repository.CatalogCache
	logger  *zap.Logger
}

// NewCatalogAdmin creates a new CatalogAdmin use case. cache may be nil.
func NewCatalogAdmin(catalog repository.CatalogRepository, cache repository.CatalogCache, logger *zap.Logger) CatalogAdmin {
	return &catalogAdminUseCase{catalog: catalog, cache: cache, logger: logger}
}

// List returns the editable catalog, with every record normalized.
func (uc *catalogAdminUseCase) List(ctx context.Context) ([]entity.Product, error) {
	_, products, err := uc.catalog.LoadEditable(ctx)
	if err != nil {
		return nil, err
	}
	return normalizeAll(products), nil
}

// Create prepends a new product. The ID is regenerated when it collides with an
// existing record; a slug collision is rejected with ErrSlugConflict.
func (uc *catalogAdminUseCase) Create(ctx context.Context, in entity.ProductInput) (*entity.Product, error) {
	var created entity.Product
	_, err := uc.mutate(ctx, func(products []entity.Product) ([]entity.Product, error) {
		created = normalizeProduct(in, nil)
		if indexByID(products, created.ID) >= 0 {
			created.ID = uuid.NewString()
		}
		if slugTaken(products, created.Slug, "") {
			return nil, ErrSlugConflict
		}
		return append([]entity.Product{created}, products...), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update merges in over the record with the same ID.
func (uc *catalogAdminUseCase) Update(ctx context.Context, in entity.ProductInput) (*entity.Product, error) {
	id := trimmed(in.ID)
	if id == "" {
		return nil, ErrMissingID
	}

	var updated entity.Product
	_, err := uc.mutate(ctx, func(products []entity.Product) ([]entity.Product, error) {
		i := indexByID(products, id)
		if i < 0 {
			return nil, ErrProductNotFound
		}
		updated = normalizeProduct(in, &products[i])
		if slugTaken(products, updated.Slug, id) {
			return nil, ErrSlugConflict
		}
		next := append([]entity.Product(nil), products...)
		next[i] = updated
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *catalogAdminUseCase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrMissingID
	}
	_, err := uc.mutate(ctx, func(products []entity.Product) ([]entity.Product, error) {
		next := make([]entity.Product, 0, len(products))
		for _, p := range products {
			if p.ID != id {
				next = append(next, p)
			}
		}
		if len(next) == len(products) {
			return nil, ErrProductNotFound
		}
		return next, nil
	})
	return err
}

// Reorder moves the listed products to the front in the given order and keeps the
// rest in their current order. Unknown and repeated IDs are ignored. An empty list
// leaves the catalog untouched.
func (uc *catalogAdminUseCase) Reorder(ctx context.Context, ids []string) ([]entity.Product, error) {
	var clean []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return uc.List(ctx)
	}

	return uc.mutate(ctx, func(products []entity.Product) ([]entity.Product, error) {
		byID := make(map[string]entity.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		seen := make(map[string]bool, len(clean))
		reordered := make([]entity.Product, 0, len(products))
		for _, id := range clean {
			p, ok := byID[id]
			if !ok || seen[id] {
				continue
			}
			reordered = append(reordered, p)
			seen[id] = true
		}
		for _, p := range products {
			if !seen[p.ID] {
				reordered = append(reordered, p)
			}
		}
		return reordered, nil
	})
}

// mutate normalizes the stored records before fn sees them and drops the
// storefront cache after a successful write.
func (uc *catalogAdminUseCase) mutate(ctx context.Context, fn repository.MutateFunc) ([]entity.Product, error) {
	products, err := uc.catalog.Mutate(ctx, func(current []entity.Product) ([]entity.Product, error) {
		return fn(normalizeAll(current))
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
		}
	}
	return products, nil
}

func normalizeAll(products []entity.Product) []entity.Product {
	out := make([]entity.Product, len(products))
	for i, p := range products {
		out[i] = normalizeProduct(inputFromProduct(p), nil)
	}
	return out
}

// normalizeProduct builds a valid product from partial input. Fields missing from
// in fall back to existing when it is not nil.
func normalizeProduct(in entity.ProductInput, existing *entity.Product) entity.Product {
	var cur entity.Product
	if existing != nil {
		cur = *existing
	}

	name := trimmed(in.Name)
	if name == "" {
		name = cur.Name
	}
	if name == "" {
		name = defaultProductName
	}

	category := entity.Category(trimmed(in.Category))
	if !category.Valid() {
		category = cur.Category
	}
	if !category.Valid() {
		category = entity.CategoryTechnology
	}

	slugSource := trimmed(in.Slug)
	if slugSource == "" && in.Slug == nil {
		slugSource = strings.TrimSpace(cur.Slug)
	}
	if slugSource == "" {
		slugSource = name
	}
	slug := scraper.Slugify(slugSource)
	if slug == "" {
		slug = strings.TrimSpace(cur.Slug)
	}
	if slug == "" {
		slug = uuid.NewString()
	}

	description := cur.Description
	if in.Description != nil {
		description = *in.Description
	}

	id := trimmed(in.ID)
	if id == "" {
		id = cur.ID
	}
	if id == "" {
		id = uuid.NewString()
	}

	price := cur.Price
	if in.Price != nil {
		price = safePrice(*in.Price)
	} else if price < 0 {
		price = 0
	}

	previous := cur.PreviousPrice
	if in.PreviousPrice != nil {
		previous = nil
		if v := safePrice(*in.PreviousPrice); v > 0 {
			previous = &v
		}
	}

	images := safeImages(in.Images)
	if len(images) == 0 {
		images = cur.Images
	}
	if images == nil {
		images = []string{}
	}

	featured := cur.Featured
	if in.Featured != nil {
		featured = *in.Featured
	}
	draft := cur.Draft
	if in.Draft != nil {
		draft = *in.Draft
	}

	variants := cur.Variants
	if in.Variants != nil {
		variants = in.Variants
	}

	attributes := cur.Attributes
	if in.Attributes != nil {
		attributes = in.Attributes
	}

	return entity.Product{
		ID:            id,
		Slug:          slug,
		Name:          name,
		Description:   description,
		Price:         price,
		PreviousPrice: previous,
		Images:        images,
		Category:      category,
		Featured:      featured,
		Draft:         draft,
		Variants:      safeVariants(variants),
		Attributes:    safeAttributes(attributes),
	}
}

// inputFromProduct turns a stored record into input so it can go through the
// same normalization as admin submissions.
func inputFromProduct(p entity.Product) entity.ProductInput {
	price := float64(p.Price)
	category := string(p.Category)
	in := entity.ProductInput{
		ID:          &p.ID,
		Slug:        &p.Slug,
		Name:        &p.Name,
		Description: &p.Description,
		Price:       &price,
		Images:      p.Images,
		Category:    &category,
		Featured:    &p.Featured,
		Draft:       &p.Draft,
		Variants:    p.Variants,
		Attributes:  p.Attributes,
	}
	if p.PreviousPrice != nil {
		previous := float64(*p.PreviousPrice)
		in.PreviousPrice = &previous
	}
	return in
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func safePrice(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > math.MaxInt64/2 {
		return 0
	}
	return int64(math.Round(v))
}

func safeImages(images []string) []string {
	var out []string
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

func safeVariants(v *entity.Variants) *entity.Variants {
	if v == nil {
		return nil
	}
	out := &entity.Variants{
		Color: nonBlank(v.Color),
		Size:  nonBlank(v.Size),
	}
	if out.Color == nil && out.Size == nil {
		return nil
	}
	return out
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// safeAttributes keeps string, number and bool values only.
func safeAttributes(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		switch v.(type) {
		case string, bool, float64, float32, int, int32, int64:
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func indexByID(products []entity.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// slugTaken reports whether a product other than exceptID uses slug.
func slugTaken(products []entity.Product, slug, exceptID string) bool {
	for _, p := range products {
		if p.Slug == slug && (exceptID == "" || p.ID != exceptID) {
			return true
		}
	}
	return false
}
