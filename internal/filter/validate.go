package filter

import (
	"strings"

	"portal_final_backend/internal/domain"
	"portal_final_backend/platform/apperr"
	"portal_final_backend/platform/sanitize"
)

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	FilteredQuery string
	Profile       domain.UserProfile
}

// Validate runs the §4.1 validation pipeline: sanitize, length-cap,
// injection check, topic-keyword gate, and basic profile shape check. A
// rejection returns an *apperr.Error of KindValidation with a user-facing
// Korean message, matching the reference implementation's guidance text.
func Validate(rawQuery string, profile domain.UserProfile) (ValidationResult, error) {
	query := sanitizeQuery(rawQuery)
	if query == "" {
		return ValidationResult{}, apperr.Validation("질문을 입력해주세요.")
	}

	if containsInjection(query) {
		return ValidationResult{}, apperr.Validation("올바르지 않은 요청입니다. 음식점이나 카페 추천을 요청해주세요.")
	}

	if blocked, reason := checkKeywords(query); !blocked {
		return ValidationResult{}, apperr.Validation(reason)
	}

	if err := validateProfile(profile); err != nil {
		return ValidationResult{}, err
	}

	return ValidationResult{FilteredQuery: query, Profile: profile}, nil
}

// validateProfile enforces §4.1's profile-shape rule: a supplied profile
// (any field set) must carry both a userId and a telco that normalizes
// into the allowed carrier set (§3: telco is null or in the allowed set).
// A profile left entirely zero counts as "not supplied" and passes through
// untouched.
func validateProfile(profile domain.UserProfile) error {
	if !profileSupplied(profile) {
		return nil
	}
	if profile.UserID == "" {
		return apperr.Validation("회원 정보가 불완전합니다. userId를 확인해주세요.")
	}
	if !domain.IsAllowedTelco(domain.NormalizeTelco(profile.Telco)) {
		return apperr.Validation("지원하지 않는 통신사입니다. SKT, KT, LG U+ 중 하나를 입력해주세요.")
	}
	return nil
}

func profileSupplied(profile domain.UserProfile) bool {
	return profile.UserID != "" || profile.Telco != "" ||
		len(profile.Cards) > 0 || len(profile.Memberships) > 0 ||
		len(profile.Affiliations) > 0 || len(profile.Categories) > 0 ||
		profile.Coords != nil
}

func sanitizeQuery(raw string) string {
	trimmed := strings.TrimSpace(sanitize.Text(raw))
	runes := []rune(trimmed)
	if len(runes) > maxQueryLength {
		trimmed = string(runes[:maxQueryLength])
	}
	return trimmed
}

func containsInjection(query string) bool {
	lower := strings.ToLower(query)
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

// checkKeywords returns (ok, reasonIfRejected). A blocked keyword always
// rejects; for queries at or above shortQueryThreshold, at least one
// allowed keyword must be present.
func checkKeywords(query string) (bool, string) {
	lower := strings.ToLower(query)

	for _, blocked := range blockedKeywords {
		if strings.Contains(lower, blocked) {
			return false, "'" + blocked + "' 관련 질문은 지원하지 않습니다. 음식점이나 카페 추천을 요청해주세요."
		}
	}

	if len([]rune(query)) < shortQueryThreshold {
		return true, ""
	}

	for _, keyword := range allowedKeywords {
		if strings.Contains(lower, keyword) {
			return true, ""
		}
	}
	return false, "음식점, 카페, 할인 관련 질문만 가능합니다. 예: '강남역 근처 맛집 추천'"
}
