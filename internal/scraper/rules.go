package scraper

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/user/storefront-catalog/internal/entity"
)

// Rule patterns use ECMAScript syntax so they can be maintained alongside the
// storefront rules they were first written for.
const ruleOptions = regexp2.IgnoreCase | regexp2.ECMAScript

// ConditionRule maps a phrase found in the notes to a condition tag.
type ConditionRule struct {
	Phrase string
	Tag    string
}

// Rules is the heuristic configuration used to classify extracted items.
type Rules struct {
	CategoryByPage    map[string]entity.Category
	ShoeHints         []*regexp2.Regexp
	ClothingHints     []*regexp2.Regexp
	UnmatchedCategory entity.Category
	Conditions        []ConditionRule
	SizePattern       *regexp2.Regexp
	ColorPattern      *regexp2.Regexp
}

var (
	defaultShoeHints = []string{`tenis`, `old skool`, `slip on`, `authentic`, `shoe`}

	defaultClothingHints = []string{
		`gorra`, `gorro`, `camiseta`, `buso`, `hoodie`, `jersey`, `chompa`, `calcetin`, `medias`,
	}

	defaultSizePattern  = `\btallas?\s+[a-z0-9.\-"]+|\bus\s?[0-9.]+(?:\s?-\s?[0-9.]+)?|\b(?:xxl|xl|xs|s|m|l)\b`
	defaultColorPattern = `\b(?:black|white|brown|beige|yellow|grey|gray|red|blue|green|gum)\b`
)

// DefaultRules returns the rule set used for the legacy storefront pages.
func DefaultRules() Rules {
	return Rules{
		CategoryByPage: map[string]entity.Category{
			"tecnologia":  entity.CategoryTechnology,
			"bmxmedellin": entity.CategoryBikes,
		},
		ShoeHints:         MustCompilePatterns(defaultShoeHints),
		ClothingHints:     MustCompilePatterns(defaultClothingHints),
		UnmatchedCategory: entity.CategoryClothing,
		Conditions: []ConditionRule{
			{Phrase: "exhibici", Tag: "display"},
			{Phrase: "open box", Tag: "open_box"},
			{Phrase: "like new", Tag: "like_new"},
			{Phrase: "usado", Tag: "used"},
			{Phrase: "nuevo", Tag: "new"},
			{Phrase: "preventa", Tag: "preorder"},
		},
		SizePattern:  regexp2.MustCompile(defaultSizePattern, ruleOptions),
		ColorPattern: regexp2.MustCompile(defaultColorPattern, ruleOptions),
	}
}

// CompilePatterns compiles case-insensitive hint patterns.
func CompilePatterns(patterns []string) ([]*regexp2.Regexp, error) {
	compiled := make([]*regexp2.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp2.Compile(p, ruleOptions)
		if err != nil {
			return nil, fmt.Errorf("invalid rule pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// MustCompilePatterns is like CompilePatterns but panics on an invalid pattern.
func MustCompilePatterns(patterns []string) []*regexp2.Regexp {
	compiled, err := CompilePatterns(patterns)
	if err != nil {
		panic(err)
	}
	return compiled
}

func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

func findAll(re *regexp2.Regexp, s string) []string {
	var out []string
	m, err := re.FindStringMatch(s)
	for err == nil && m != nil {
		out = append(out, m.String())
		m, err = re.FindNextMatch(m)
	}
	return out
}
