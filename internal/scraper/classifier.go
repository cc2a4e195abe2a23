package scraper

import (
	"strings"

	"github.com/user/storefront-catalog/internal/entity"
)

// InferCategory picks the category of an item. A page mapped in the rules decides
// on its own; otherwise shoe hints win over clothing hints, and items matching
// neither fall into the rules' unmatched category.
func InferCategory(pageSlug, title string, notes []string, rules Rules) entity.Category {
	if category, ok := rules.CategoryByPage[pageSlug]; ok {
		return category
	}

	blob := strings.ToLower(title + " " + strings.Join(notes, " "))
	for _, re := range rules.ShoeHints {
		if matches(re, blob) {
			return entity.CategoryShoes
		}
	}
	for _, re := range rules.ClothingHints {
		if matches(re, blob) {
			return entity.CategoryClothing
		}
	}
	return rules.UnmatchedCategory
}

// InferCondition returns the tag of the first condition phrase found in the notes,
// or "" when none applies.
func InferCondition(notes []string, rules Rules) string {
	raw := strings.ToLower(strings.Join(notes, " "))
	for _, c := range rules.Conditions {
		if strings.Contains(raw, c.Phrase) {
			return c.Tag
		}
	}
	return ""
}

// InferVariants detects size and color tokens in the name and notes. It returns nil
// when nothing matched.
func InferVariants(name string, notes []string, rules Rules) *entity.Variants {
	joined := name + " " + strings.Join(notes, " ")
	variants := &entity.Variants{}

	if rules.SizePattern != nil {
		variants.Size = uniqueStrings(findAll(rules.SizePattern, joined), strings.TrimSpace)
	}
	if rules.ColorPattern != nil {
		variants.Color = uniqueStrings(findAll(rules.ColorPattern, joined), strings.ToLower)
	}

	if len(variants.Size) == 0 && len(variants.Color) == 0 {
		return nil
	}
	return variants
}

func uniqueStrings(values []string, key func(string) string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		k := key(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
