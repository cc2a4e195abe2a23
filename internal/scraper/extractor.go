package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/storefront-catalog/internal/entity"
)

// Markers of the legacy gallery markup.
const (
	titleSelector       = `[data-hook="item-title"]`
	descriptionSelector = `div[data-hook="item-description"]`
	imageSelector       = `img[data-hook="gallery-item-image-img"]`
)

var itemWrapperRe = regexp.MustCompile(`<div data-id="[^"]+" class="item-link-wrapper"[^>]*>`)

// Extract parses a gallery page into products. Items without a title or without a
// parseable price are skipped. Returned products carry the remote image URL, if any,
// and a pending ID.
func Extract(html, pageSlug string, rules Rules) []entity.Product {
	var products []entity.Product
	for _, fragment := range SplitItems(html) {
		if p, ok := extractItem(fragment, pageSlug, rules); ok {
			products = append(products, p)
		}
	}
	return products
}

// SplitItems cuts a page into per-item fragments, discarding everything before the
// first item wrapper.
func SplitItems(html string) []string {
	parts := itemWrapperRe.Split(html, -1)
	if len(parts) <= 1 {
		return nil
	}
	return parts[1:]
}

func extractItem(fragment, pageSlug string, rules Rules) (entity.Product, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return entity.Product{}, false
	}

	title := spanText(doc.Find(titleSelector).First().Find("span").First())
	if title == "" {
		return entity.Product{}, false
	}

	lines := descriptionLines(doc.Find(descriptionSelector).First())
	priceLine := ""
	for _, line := range lines {
		if strings.Contains(line, "$") {
			priceLine = line
			break
		}
	}
	price, ok := ParsePrice(priceLine)
	if !ok {
		return entity.Product{}, false
	}

	var notes []string
	for _, line := range lines {
		if line != "" && line != priceLine {
			notes = append(notes, line)
		}
	}

	description := strings.TrimSpace(strings.Join(notes, " "))
	if description == "" {
		description = fmt.Sprintf("Imported from %s.", pageSlug)
	}

	attributes := map[string]any{
		"source_page":    pageSlug,
		"source_section": pageSlug,
	}
	if condition := InferCondition(notes, rules); condition != "" {
		attributes["condition"] = condition
	}

	var images []string
	if img := bestImage(doc); img != "" {
		images = []string{img}
	}

	return entity.Product{
		ID:          "pending",
		Slug:        Slugify(title),
		Name:        title,
		Description: description,
		Price:       price,
		Images:      images,
		Category:    InferCategory(pageSlug, title, notes, rules),
		Featured:    false,
		Variants:    InferVariants(title, notes, rules),
		Attributes:  attributes,
	}, true
}

// descriptionLines returns the text of the outermost spans of the description block.
func descriptionLines(block *goquery.Selection) []string {
	var lines []string
	block.Find("span").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsUntilSelection(block).Filter("span").Length() > 0 {
			return
		}
		lines = append(lines, spanText(s))
	})
	return lines
}

func spanText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	s.Find("br").ReplaceWithHtml(" ")
	return CollapseSpace(s.Text())
}

func bestImage(doc *goquery.Document) string {
	img := doc.Find(imageSelector).First()
	if img.Length() == 0 {
		return ""
	}

	var candidates []string
	if src, ok := img.Attr("src"); ok {
		if u, ok := NormalizeImageURL(src); ok {
			candidates = append(candidates, u)
		}
	}
	if srcset, ok := img.Attr("srcset"); ok {
		candidates = append(candidates, ParseSrcset(srcset)...)
	}
	return BestImageURL(candidates)
}
