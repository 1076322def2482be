// Package filter implements the query filter (C1): prompt-injection
// defense, topic validation, and rule-based keyword extraction.
package filter

import "regexp"

// injectionPatterns catch common prompt-injection phrasings in Korean and
// English.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)이전\s*(지시|명령|프롬프트|instruction)`),
	regexp.MustCompile(`(?i)(무시|ignore|forget|disregard)`),
	regexp.MustCompile(`(?i)시스템\s*프롬프트`),
	regexp.MustCompile(`(?i)system\s*prompt`),
	regexp.MustCompile(`(?i)너는\s*(이제|지금부터)`),
	regexp.MustCompile(`(?i)you\s*are\s*now`),
	regexp.MustCompile(`(?i)역할\s*변경`),
	regexp.MustCompile(`(?i)pretend\s*to\s*be`),
}

// allowedKeywords gates topic relevance for longer queries: a query of 20+
// characters must contain at least one of these to be considered F&B-related.
var allowedKeywords = []string{
	"음식점", "식당", "맛집", "카페", "할인", "쿠폰", "추천", "위치", "근처", "주변",
	"디저트", "치킨", "한식", "중식", "분식", "양식", "일식", "회", "초밥", "족발",
	"보쌈", "고기", "구이", "도시락", "죽", "찜", "탕", "샐러드", "아시안", "버거",
	"피자", "파스타", "술집", "저녁", "점심",
}

// blockedKeywords immediately reject a query regardless of length.
var blockedKeywords = []string{
	"코딩", "프로그래밍", "정치", "주식", "의료", "법률", "파이썬", "자바",
	"javascript", "투자", "진료", "변호사",
}

// maxQueryLength truncates sanitized input; anything beyond this is
// discarded rather than rejected.
const maxQueryLength = 500

// shortQueryThreshold is the length below which the allowed-keyword gate is
// skipped entirely (a short query is assumed to be an address/place name).
const shortQueryThreshold = 20
