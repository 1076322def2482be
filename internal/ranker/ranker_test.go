package ranker

import (
	"testing"

	"portal_final_backend/internal/domain"
)

func meters(v float64) *float64 { return &v }

// TestBuildPersonalizedScenarioS1 reproduces the literal S1 scenario: 카페A
// at 120m has two applicable discounts (SKT PER_UNIT and 신한카드 PERCENT),
// the best being 신한카드's 2400. 카페B at 260m has one SKT PERCENT discount
// worth 1200. The personalized list must rank A above B.
func TestBuildPersonalizedScenarioS1(t *testing.T) {
	cap3000 := 3000.0
	cafeA := MerchantInput{
		StoreID: "store-a", Name: "카페A", DistanceMeters: meters(120),
		Discounts: []domain.DiscountProgram{
			{
				DiscountName: "SKT PER_UNIT", ProviderType: domain.ProviderTelco,
				Shape:                domain.Shape{Kind: domain.ShapePerUnit, UnitAmount: 1000, PerUnitValue: 150, MaxAmount: &cap3000},
				AppliedByUserProfile: true, IsDiscount: true,
			},
			{
				DiscountName: "신한카드 PERCENT", ProviderType: domain.ProviderPayment,
				Shape:                domain.Shape{Kind: domain.ShapePercent, Percent: 20},
				AppliedByUserProfile: true, IsDiscount: true,
			},
		},
	}
	cafeB := MerchantInput{
		StoreID: "store-b", Name: "카페B", DistanceMeters: meters(260),
		Discounts: []domain.DiscountProgram{
			{
				DiscountName: "SKT PERCENT", ProviderType: domain.ProviderTelco,
				Shape:                domain.Shape{Kind: domain.ShapePercent, Percent: 10},
				AppliedByUserProfile: true, IsDiscount: true,
			},
		},
	}

	ranked := BuildPersonalized([]MerchantInput{cafeA, cafeB}, 12000)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked entries, got %d", len(ranked))
	}
	if ranked[0].Name != "카페A" {
		t.Fatalf("expected 카페A ranked first (value 2400 > 1200), got %s", ranked[0].Name)
	}
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Fatalf("expected ranks 1,2, got %d,%d", ranked[0].Rank, ranked[1].Rank)
	}
}

func TestBuildPersonalizedExcludesMerchantsWithNoApplicableDiscount(t *testing.T) {
	m := MerchantInput{
		Name: "미적용매장", DistanceMeters: meters(50),
		Discounts: []domain.DiscountProgram{
			{DiscountName: "KT 전용", AppliedByUserProfile: false},
		},
	}
	ranked := BuildPersonalized([]MerchantInput{m}, 12000)
	if len(ranked) != 0 {
		t.Fatalf("expected no entries when nothing is applicable, got %d", len(ranked))
	}
}

func TestBuildPersonalizedTopThreeTruncation(t *testing.T) {
	var merchants []MerchantInput
	for i := 0; i < 5; i++ {
		merchants = append(merchants, MerchantInput{
			Name: string(rune('A' + i)), DistanceMeters: meters(float64(i * 10)),
			Discounts: []domain.DiscountProgram{
				{DiscountName: "d", Shape: domain.Shape{Kind: domain.ShapePercent, Percent: 10}, AppliedByUserProfile: true, IsDiscount: true},
			},
		})
	}
	ranked := BuildPersonalized(merchants, 12000)
	if len(ranked) != 3 {
		t.Fatalf("expected truncation to top 3, got %d", len(ranked))
	}
}

func TestBuildByDistanceIncludesAllBenefitsUnfiltered(t *testing.T) {
	near := MerchantInput{
		Name: "근처매장", DistanceMeters: meters(50),
		Discounts: []domain.DiscountProgram{
			{DiscountName: "비적용 할인", AppliedByUserProfile: false},
		},
	}
	far := MerchantInput{Name: "먼매장", DistanceMeters: meters(500)}
	ranked := BuildByDistance([]MerchantInput{far, near})

	if ranked[0].Name != "근처매장" {
		t.Fatalf("expected nearest merchant first, got %s", ranked[0].Name)
	}
	if len(ranked[0].AllBenefits) != 1 {
		t.Fatalf("expected unfiltered discount list to include the non-applicable discount, got %d", len(ranked[0].AllBenefits))
	}
}

func TestBuildByDistanceNilDistanceSortsLast(t *testing.T) {
	withDistance := MerchantInput{Name: "A", DistanceMeters: meters(100)}
	noDistance := MerchantInput{Name: "B", DistanceMeters: nil}
	ranked := BuildByDistance([]MerchantInput{noDistance, withDistance})
	if ranked[0].Name != "A" || ranked[1].Name != "B" {
		t.Fatalf("expected merchant with known distance first, got order %s, %s", ranked[0].Name, ranked[1].Name)
	}
}

func TestNormalizeDiscountPayloadWrappedShape(t *testing.T) {
	raw := map[string]any{
		"discount": map[string]any{
			"discounts_by_store": map[string]any{
				"스타벅스 동국대점": map[string]any{
					"discounts": []any{
						"@{discountId=d1; discountName=신한카드 20% 할인; providerType=PAYMENT; providerName=신한카드; shape=@{kind=PERCENT; amount=20.0; maxAmount=}; requiredConditions=@{payments=System.Object[]; telcos=System.Object[]; memberships=System.Object[]; affiliations=System.Object[]}; appliedByUserProfile=True; isDiscount=True}",
					},
				},
			},
		},
	}
	out, err := NormalizeDiscountPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	programs, ok := out["스타벅스 동국대점"]
	if !ok || len(programs) != 1 {
		t.Fatalf("expected 1 decoded program, got %v", out)
	}
	p := programs[0]
	if p.DiscountName != "신한카드 20% 할인" || p.Shape.Kind != domain.ShapePercent || p.Shape.Percent != 20.0 {
		t.Fatalf("unexpected decoded program: %+v", p)
	}
	if !p.AppliedByUserProfile {
		t.Fatal("expected appliedByUserProfile to decode true")
	}
}
