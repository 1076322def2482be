package ranker

import (
	"fmt"

	"portal_final_backend/internal/discount"
	"portal_final_backend/internal/domain"
)

// NormalizeDiscountPayload flattens a discount payload that may arrive in
// any of three shapes into the canonical merchant-name -> discounts map
// (§4.6):
//   - a map merchant -> {"discounts": [...]}
//   - a map with a top-level "discounts_by_store" or "discount.discounts_by_store"
//     wrapper key
//   - a flat list of discount dicts, each carrying its own "merchant"/"store"
//     key
//
// Entries that arrived as stringified ".NET-style" records are parsed via
// discount.ParseObjectString before decoding.
func NormalizeDiscountPayload(raw any) (map[string][]domain.DiscountProgram, error) {
	unwrapped := unwrapStoreMap(raw)

	switch payload := unwrapped.(type) {
	case map[string]any:
		return normalizeByMerchant(payload)
	case []any:
		return normalizeRawList(payload)
	default:
		return nil, fmt.Errorf("unrecognized discount payload shape: %T", raw)
	}
}

// unwrapStoreMap peels the "discounts_by_store" / "discount.discounts_by_store"
// wrapper keys if present, otherwise returns raw unchanged.
func unwrapStoreMap(raw any) any {
	m, ok := raw.(map[string]any)
	if !ok {
		return raw
	}
	if inner, ok := m["discounts_by_store"]; ok {
		return inner
	}
	if wrapped, ok := m["discount"].(map[string]any); ok {
		if inner, ok := wrapped["discounts_by_store"]; ok {
			return inner
		}
	}
	return raw
}

func normalizeByMerchant(payload map[string]any) (map[string][]domain.DiscountProgram, error) {
	out := make(map[string][]domain.DiscountProgram, len(payload))
	for merchant, entry := range payload {
		items, err := extractDiscountList(entry)
		if err != nil {
			return nil, fmt.Errorf("merchant %q: %w", merchant, err)
		}
		programs := make([]domain.DiscountProgram, 0, len(items))
		for _, item := range items {
			programs = append(programs, decodeDiscount(item))
		}
		out[merchant] = programs
	}
	return out, nil
}

func normalizeRawList(list []any) (map[string][]domain.DiscountProgram, error) {
	out := make(map[string][]domain.DiscountProgram)
	for _, raw := range list {
		item := coerceDiscountMap(raw)
		merchant := asString(item["merchant"])
		if merchant == "" {
			merchant = asString(item["store"])
		}
		out[merchant] = append(out[merchant], decodeDiscount(item))
	}
	return out, nil
}

// extractDiscountList pulls the list of discount entries out of a
// merchant's entry, which may be {"discounts": [...]} or a bare list.
func extractDiscountList(entry any) ([]map[string]any, error) {
	switch v := entry.(type) {
	case map[string]any:
		inner, ok := v["discounts"]
		if !ok {
			return []map[string]any{v}, nil
		}
		list, ok := inner.([]any)
		if !ok {
			return nil, fmt.Errorf("discounts field is not a list: %T", inner)
		}
		items := make([]map[string]any, 0, len(list))
		for _, raw := range list {
			items = append(items, coerceDiscountMap(raw))
		}
		return items, nil
	case []any:
		items := make([]map[string]any, 0, len(v))
		for _, raw := range v {
			items = append(items, coerceDiscountMap(raw))
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected merchant entry shape: %T", entry)
	}
}

// coerceDiscountMap resolves a raw discount item that may itself be a
// stringified ".NET-style" record into a plain map.
func coerceDiscountMap(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case string:
		if parsed, ok := discount.ParseObjectString(v).(map[string]any); ok {
			return parsed
		}
		return map[string]any{}
	default:
		return map[string]any{}
	}
}

// decodeDiscount builds a domain.DiscountProgram from a loosely-typed map,
// re-parsing the shape/requiredConditions sub-fields when they were
// serialized as ".NET-style" strings. The constraints field is not decoded:
// every returned program carries zero-value Constraints.
func decodeDiscount(item map[string]any) domain.DiscountProgram {
	d := domain.DiscountProgram{
		DiscountID:           asString(item["discountId"]),
		DiscountName:         asString(item["discountName"]),
		ProviderType:         domain.ProviderType(asString(item["providerType"])),
		ProviderName:         asString(item["providerName"]),
		AppliedByUserProfile: asBool(item["appliedByUserProfile"]),
		IsDiscount:           asBoolDefault(item["isDiscount"], true),
		IsActive:             true,
	}

	if shape, ok := resolveSubObject(item["shape"]); ok {
		d.Shape = decodeShape(shape)
	}
	if conditions, ok := resolveSubObject(item["requiredConditions"]); ok {
		d.RequiredConditions = decodeRequiredConditions(conditions)
	}
	return d
}

func resolveSubObject(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case string:
		if parsed, ok := discount.ParseObjectString(val).(map[string]any); ok {
			return parsed, true
		}
	}
	return nil, false
}

// decodeShape follows the upstream catalog's generic field layout: both
// PERCENT and AMOUNT carry their value under "amount" (percent or won,
// respectively), and PER_UNIT carries its rate under a nested "unitRule"
// object ({unitAmount, perUnitValue, maxDiscountAmount}) rather than flat
// fields.
func decodeShape(m map[string]any) domain.Shape {
	kind := domain.ShapeKind(asString(m["kind"]))
	s := domain.Shape{Kind: kind}

	switch kind {
	case domain.ShapePercent:
		s.Percent = asFloat(m["amount"])
		if max, ok := m["maxAmount"]; ok && max != nil {
			v := asFloat(max)
			s.MaxAmount = &v
		}
	case domain.ShapeAmount:
		s.Amount = asFloat(m["amount"])
	case domain.ShapePerUnit:
		unitRule, _ := resolveSubObject(m["unitRule"])
		s.UnitAmount = asFloat(unitRule["unitAmount"])
		s.PerUnitValue = asFloat(unitRule["perUnitValue"])
		if max, ok := unitRule["maxDiscountAmount"]; ok && max != nil {
			v := asFloat(max)
			s.MaxAmount = &v
		}
	}
	return s
}

func decodeRequiredConditions(m map[string]any) domain.RequiredConditions {
	return domain.RequiredConditions{
		Payments:     discount.AsStringList(m["payments"]),
		Telcos:       discount.AsStringList(m["telcos"]),
		Memberships:  discount.AsStringList(m["memberships"]),
		Affiliations: discount.AsStringList(m["affiliations"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asBoolDefault(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
