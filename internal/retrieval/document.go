// Package retrieval implements the retrieval context builder (C7): a
// session-scoped in-memory lexical index over merchant "documents", scored
// against the user query, producing an LLM-ready context and a
// deterministic fallback answer.
package retrieval

import (
	"fmt"
	"regexp"
	"strings"

	"portal_final_backend/internal/domain"
)

// tokenPattern extracts alphanumeric and Hangul runs (§4.7 tokenization).
var tokenPattern = regexp.MustCompile(`[0-9A-Za-z가-힣]+`)

// Review is one review snippet attached to a merchant.
type Review struct {
	Author  string
	Content string
	Rating  float64 // 0 = not present
}

// RepresentativeBenefit is the single best discount surfaced in a
// document's text, if any.
type RepresentativeBenefit struct {
	Name string
	Rate float64 // percent, 0 = not present
}

// DocumentInput is everything needed to compose one merchant's document.
type DocumentInput struct {
	StoreID               string
	Name                  string
	Category              string
	Address                string
	DistanceMeters        *float64
	DiscountRank          int // 0 = unranked
	DistanceRank          int // 0 = unranked
	RepresentativeBenefit *RepresentativeBenefit
	Reason                string
	Reviews               []Review
}

// Document is one session-stored, tokenized merchant record.
type Document struct {
	ID             string
	Text           string
	StoreID        string
	Name           string
	Category       string
	DistanceMeters *float64
	DiscountRank   int
	DistanceRank   int
	ReviewHighlight string
	Tokens         map[string]int
}

// BuildDocument composes a merchant's document text (§4.7 "Document
// composition") and tokenizes it.
func BuildDocument(sessionID string, idx int, in DocumentInput) Document {
	reviewText := reviewSnippet(in.Reviews)
	text := composeText(in, reviewText)

	return Document{
		ID:              fmt.Sprintf("%s_%s_%d", sessionID, in.StoreID, idx),
		Text:            text,
		StoreID:         in.StoreID,
		Name:            in.Name,
		Category:        in.Category,
		DistanceMeters:  in.DistanceMeters,
		DiscountRank:    in.DiscountRank,
		DistanceRank:    in.DistanceRank,
		ReviewHighlight: reviewText,
		Tokens:          tokenize(text),
	}
}

func composeText(in DocumentInput, reviewText string) string {
	chunks := []string{fmt.Sprintf("%s (%s)", in.Name, in.Category)}

	if in.Address != "" {
		chunks = append(chunks, fmt.Sprintf("주소: %s", in.Address))
	}
	if in.DistanceMeters != nil {
		chunks = append(chunks, fmt.Sprintf("현재 위치에서 %gm 거리", *in.DistanceMeters))
	}
	if in.DiscountRank > 0 {
		chunks = append(chunks, fmt.Sprintf("할인 우선순위 %d위", in.DiscountRank))
	}
	if in.DistanceRank > 0 {
		chunks = append(chunks, fmt.Sprintf("거리 우선순위 %d위", in.DistanceRank))
	}
	if b := in.RepresentativeBenefit; b != nil && b.Name != "" {
		rateText := ""
		if b.Rate > 0 {
			rateText = fmt.Sprintf(" %g%%", b.Rate)
		}
		chunks = append(chunks, fmt.Sprintf("%s 혜택%s 대상", b.Name, rateText))
	}
	if in.Reason != "" {
		chunks = append(chunks, in.Reason)
	}
	if reviewText != "" {
		chunks = append(chunks, reviewText)
	}

	return strings.Join(chunks, ". ")
}

// reviewSnippet formats the first review as "author (rating★) 후기: content",
// truncating content to 150 runes with an ellipsis.
func reviewSnippet(reviews []Review) string {
	if len(reviews) == 0 {
		return ""
	}
	r := reviews[0]
	author := r.Author
	if author == "" {
		author = "익명"
	}
	prefix := author
	if r.Rating > 0 {
		prefix = fmt.Sprintf("%s (%g★)", author, r.Rating)
	}
	content := truncateRunes(r.Content, 150)
	return fmt.Sprintf("%s 후기: %s", prefix, content)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func tokenize(text string) map[string]int {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// MerchantFromDomain adapts a domain.Merchant plus its C6 ranks into a
// DocumentInput.
func MerchantFromDomain(m domain.Merchant, discountRank, distanceRank int, benefit *RepresentativeBenefit, reason string) DocumentInput {
	var reviews []Review
	for _, r := range m.Reviews {
		reviews = append(reviews, Review{Content: r})
	}
	return DocumentInput{
		StoreID:               m.StoreID,
		Name:                  m.Name,
		Category:              m.Category,
		Address:               m.Address,
		DistanceMeters:        m.DistanceMeters,
		DiscountRank:          discountRank,
		DistanceRank:          distanceRank,
		RepresentativeBenefit: benefit,
		Reason:                reason,
		Reviews:               reviews,
	}
}
