package scraper

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9]+`)
	nonDigitRe = regexp.MustCompile(`[^0-9]`)
)

// CollapseSpace replaces every run of whitespace with a single space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DecodeText unescapes HTML entities and collapses whitespace.
func DecodeText(s string) string {
	return CollapseSpace(html.UnescapeString(s))
}

// FoldAccents lowercases s and strips combining marks, so "Canción" becomes "cancion".
func FoldAccents(s string) string {
	t := norm.NFD.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Slugify derives the URL-safe identifier of a product name.
func Slugify(s string) string {
	slug := nonSlugRe.ReplaceAllString(FoldAccents(s), "-")
	return strings.Trim(slug, "-")
}

// ParsePrice keeps only the digits of s and parses them as an amount in pesos.
// It reports false when no positive amount can be read.
func ParsePrice(s string) (int64, bool) {
	digits := nonDigitRe.ReplaceAllString(s, "")
	if digits == "" {
		return 0, false
	}
	price, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}
