package discovery

import "strings"

// normalizePlaceType applies the §4.3 category-match normalization: "맛집"
// maps to the broader "음식점" category, and any other place type of two or
// more runes ending in "집" has that final "집" stripped (e.g. "고깃집" ->
// "고깃") so it matches a provider's category tag without the "house of X"
// suffix.
func normalizePlaceType(placeType string) string {
	if placeType == "맛집" {
		return "음식점"
	}
	runes := []rune(placeType)
	if len(runes) >= 2 && strings.HasSuffix(placeType, "집") {
		return string(runes[:len(runes)-1])
	}
	return placeType
}

// matchesCategory reports whether a candidate's category string or tags
// contain the normalized place type. An empty normalized type matches
// everything (no filter requested).
func matchesCategory(normalized, category string) bool {
	if normalized == "" {
		return true
	}
	return strings.Contains(category, normalized)
}
