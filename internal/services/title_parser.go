package services

import (
	"regexp"
	"strconv"
	"strings"
)

// titlePattern matches "card name (set name)" where the parenthesized
// suffix ends the title.
var titlePattern = regexp.MustCompile(`^(.*?)\s*\(([^()]+)\)\s*$`)

// trailingDigits extracts the numeric tail of a Shopify global id like
// "gid://shopify/Product/1234567890".
var trailingDigits = regexp.MustCompile(`(\d+)$`)

// ParseProductTitle splits a product title into card name and set name.
// Titles without a parenthesized set keep the whole title as the card
// name with a nil set; the card name is never empty for a non-empty
// title.
func ParseProductTitle(title string) (cardName string, setName *string) {
	title = strings.TrimSpace(title)
	if m := titlePattern.FindStringSubmatch(title); m != nil {
		name := strings.TrimSpace(m[1])
		set := strings.TrimSpace(m[2])
		if name != "" && set != "" {
			return name, &set
		}
	}
	return title, nil
}

// ParseVariantOptions picks condition and finish out of a variant's
// selected options. Option names are matched case-insensitively;
// unrecognized names are ignored and a duplicate axis keeps the last
// value seen.
func ParseVariantOptions(v RawVariant) (condition, finish *string) {
	for _, opt := range v.SelectedOptions {
		value := strings.TrimSpace(opt.Value)
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(opt.Name)) {
		case "condition", "conditions":
			val := value
			condition = &val
		case "finish", "style", "type":
			val := value
			finish = &val
		}
	}
	return condition, finish
}

// ExtractNumericID returns the trailing numeric segment of a Shopify
// global id, or false when the id has no numeric tail. Records without
// a numeric id are skipped by the sync.
func ExtractNumericID(globalID string) (int64, bool) {
	m := trailingDigits.FindString(globalID)
	if m == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
