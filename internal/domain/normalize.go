package domain

import "strings"

// telcoSynonyms folds the common ways a carrier name is written in Korean
// onto the three canonical Telco values. Grounded on the reference
// normalize_telco table (exact matches first, then substring fallback).
var telcoSynonyms = map[string]Telco{
	"SKT":         TelcoSKT,
	"SK텔레콤":       TelcoSKT,
	"SK 텔레콤":      TelcoSKT,
	"에스케이티":       TelcoSKT,
	"에스케이텔레콤":     TelcoSKT,
	"KT":          TelcoKT,
	"케이티":         TelcoKT,
	"케이티텔레콤":      TelcoKT,
	"LG U+":       TelcoLGUP,
	"LG U PLUS":   TelcoLGUP,
	"LGU+":        TelcoLGUP,
	"LG유플러스":      TelcoLGUP,
	"LG 유플러스":     TelcoLGUP,
	"엘지유플러스":      TelcoLGUP,
	"엘지 유플러스":     TelcoLGUP,
}

// telcoSubstrings is the partial-match fallback, checked in list order with
// the longer spelled-out names ahead of the bare "SKT"/"LG"/"KT" rules, so
// "LG유플러스" doesn't get caught by a bare "LG" rule ahead of it.
var telcoSubstrings = []struct {
	pattern string
	telco   Telco
}{
	{"SK텔레콤", TelcoSKT},
	{"에스케이텔레콤", TelcoSKT},
	{"에스케이티", TelcoSKT},
	{"케이티텔레콤", TelcoKT},
	{"케이티", TelcoKT},
	{"LG유플러스", TelcoLGUP},
	{"LG 유플러스", TelcoLGUP},
	{"엘지유플러스", TelcoLGUP},
	{"엘지 유플러스", TelcoLGUP},
	{"SKT", TelcoSKT},
	{"LG", TelcoLGUP},
	{"KT", TelcoKT},
}

// membershipSynonyms folds common Korean membership-program spellings onto
// one canonical label, grounded on the reference normalize_membership table.
var membershipSynonyms = map[string]string{
	"해피포인트":      "HAPPY POINT",
	"HAPPY POINT": "HAPPY POINT",
	"해피 포인트":     "HAPPY POINT",
	"CJ ONE":      "CJ ONE",
	"CJONE":       "CJ ONE",
	"씨제이원":       "CJ ONE",
	"L.POINT":     "L.POINT",
	"LPOINT":      "L.POINT",
	"L포인트":       "L.POINT",
	"엘포인트":       "L.POINT",
	"OK캐쉬백":      "OK CASHBAG",
	"OKCASHBAG":   "OK CASHBAG",
	"신세계포인트":     "SHINSEGAE POINT",
	"신세계 포인트":    "SHINSEGAE POINT",
}

// NormalizeTelco folds a raw carrier spelling onto its canonical Telco
// value. An input that matches no known synonym is returned unchanged, so
// callers that only care whether the result lands in the allowed set still
// see the original (and therefore still-invalid) spelling.
func NormalizeTelco(telco Telco) Telco {
	if telco == "" {
		return telco
	}
	normalized := strings.ToUpper(strings.TrimSpace(string(telco)))
	if canonical, ok := telcoSynonyms[normalized]; ok {
		return canonical
	}
	for _, s := range telcoSubstrings {
		if strings.Contains(normalized, s.pattern) {
			return s.telco
		}
	}
	return telco
}

// NormalizeMembership folds a raw membership-program spelling onto its
// canonical label, or returns it unchanged if it matches no known synonym.
func NormalizeMembership(membership string) string {
	if membership == "" {
		return membership
	}
	normalized := strings.ToUpper(strings.TrimSpace(membership))
	if canonical, ok := membershipSynonyms[normalized]; ok {
		return canonical
	}
	return membership
}

// IsAllowedTelco reports whether telco (already run through NormalizeTelco)
// is one of the three recognized carriers.
func IsAllowedTelco(telco Telco) bool {
	switch telco {
	case TelcoSKT, TelcoKT, TelcoLGUP:
		return true
	default:
		return false
	}
}
