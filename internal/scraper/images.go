package scraper

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	cssURLRe       = regexp.MustCompile(`(?i)^url\((.*)\)$`)
	pathWidthRe    = regexp.MustCompile(`(?i)(?:^|[/,_-])w[_-](\d{2,5})(?:[/,_-]|$)`)
	pathQualityRe  = regexp.MustCompile(`(?i)q[_-]100`)
	rasterExtRe    = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|webp|avif)$`)
	srcsetSplitRe  = regexp.MustCompile(`,\s+`)
	leadingDigitRe = regexp.MustCompile(`^\d+`)
)

// NormalizeImageURL cleans a raw src/srcset value and returns it only when it is
// an absolute URL.
func NormalizeImageURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	raw = cssURLRe.ReplaceAllString(raw, "$1")
	cleaned := strings.Trim(DecodeText(raw), `"'`)

	u, err := url.Parse(cleaned)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return u.String(), true
}

// ParseSrcset returns the URL of every srcset entry, dropping descriptors and
// entries that are not absolute URLs. Entries are separated by a comma followed by
// whitespace, since CDN transformation paths contain bare commas.
func ParseSrcset(srcset string) []string {
	var urls []string
	for _, entry := range srcsetSplitRe.Split(strings.TrimSpace(srcset), -1) {
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			continue
		}
		if u, ok := NormalizeImageURL(fields[0]); ok {
			urls = append(urls, u)
		}
	}
	return urls
}

// ScoreImageURL rates how good an image candidate looks: larger declared widths,
// full quality markers and known raster extensions score higher.
func ScoreImageURL(raw string) int {
	u, err := url.Parse(raw)
	if err != nil {
		return 0
	}

	width := leadingInt(u.Query().Get("w"))
	if m := pathWidthRe.FindStringSubmatch(u.Path); m != nil {
		if w := leadingInt(m[1]); w > width {
			width = w
		}
	}
	score := width

	if pathQualityRe.MatchString(u.Path) || u.Query().Get("q") == "100" {
		score += 50
	}
	if rasterExtRe.MatchString(u.Path) {
		score += 10
	}
	return score
}

// BestImageURL picks the highest scoring candidate; ties keep the earliest one.
func BestImageURL(candidates []string) string {
	best, bestScore := "", -1
	for _, c := range candidates {
		if s := ScoreImageURL(c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

func leadingInt(s string) int {
	digits := leadingDigitRe.FindString(strings.TrimSpace(s))
	n := 0
	for _, d := range digits {
		n = n*10 + int(d-'0')
		if n > 1_000_000 {
			break
		}
	}
	return n
}
