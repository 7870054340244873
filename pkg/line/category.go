package line

import (
	"strings"
	"unicode"
)

// Category groups machine types for model selection and coloring.
type Category string

// Known categories.
const (
	CategorySNLS    Category = "snls"    // single needle lock stitch
	CategorySNEC    Category = "snec"    // overlock / edge cutting
	CategoryIron    Category = "iron"    // iron, press, fusing
	CategoryButton  Category = "button"  // button hole and button sewing
	CategoryBartack Category = "bartack" // bartack
	CategoryHelper  Category = "helper"  // helper and work tables
	CategorySpecial Category = "special" // turning, pointing, contour, notch, wrapping
	CategoryDefault Category = "default"
)

var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategorySNLS, []string{"snls", "singleneedle", "lockstitch"}},
	{CategorySNEC, []string{"snec", "overlock", "edge"}},
	{CategoryIron, []string{"iron", "press", "fusing"}},
	{CategoryButton, []string{"button", "bhole", "buttonhole"}},
	{CategoryBartack, []string{"bartack"}},
	{CategoryHelper, []string{"helper", "table"}},
	{CategorySpecial, []string{"special", "contour", "turning", "pointing", "notch", "wrapping"}},
}

// CategoryOf classifies a free-text machine type. Rules are checked in order
// and the first keyword hit wins, so "Iron Table" is an iron, not a helper.
func CategoryOf(machineType string) Category {
	key := NormalizeKey(machineType)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(key, kw) {
				return rule.category
			}
		}
	}
	return CategoryDefault
}

// NormalizeKey lower-cases s and strips whitespace, underscores, hyphens,
// dots and slashes. It is the comparison form used for header aliases and
// machine-type keywords.
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || strings.ContainsRune("_-./", r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
