package service

import (
	"context"
	"testing"

	"portal_final_backend/internal/catalog/repository"
	"portal_final_backend/internal/domain"
)

func TestResolveBrandAndBranch(t *testing.T) {
	repo := repository.NewMemory()
	r := New(repo, nil)

	profile := domain.UserProfile{Telco: domain.TelcoSKT, Cards: []string{"신한카드"}}
	results := r.Resolve(context.Background(), profile, []string{"스타벅스 동국대점"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	res := results[0]
	if !res.Matched {
		t.Fatalf("expected brand+branch to match, reason=%q err=%v", res.Reason, res.Err)
	}
	if len(res.Discounts) != 2 {
		t.Fatalf("expected 2 brand-wide discounts at 스타벅스 동국대점, got %d", len(res.Discounts))
	}
	for _, d := range res.Discounts {
		if !d.AppliedByUserProfile {
			t.Fatalf("expected discount %q to be applicable to SKT+신한카드 profile", d.DiscountName)
		}
	}
}

func TestResolveUnknownBrand(t *testing.T) {
	repo := repository.NewMemory()
	r := New(repo, nil)

	results := r.Resolve(context.Background(), domain.UserProfile{}, []string{"이디야 동국대점"})
	if results[0].Matched {
		t.Fatal("expected unknown brand to be unmatched")
	}
	if results[0].Reason != "brand not found" {
		t.Fatalf("expected brand not found reason, got %q", results[0].Reason)
	}
}

func TestResolveUnknownBranchFallsBackToBrandLevel(t *testing.T) {
	repo := repository.NewMemory()
	r := New(repo, nil)

	results := r.Resolve(context.Background(), domain.UserProfile{}, []string{"스타벅스 잠실점"})
	res := results[0]
	if !res.Matched {
		t.Fatal("expected brand-level match even though branch is unknown")
	}
	if res.Reason != "branch not found; brand-level only" {
		t.Fatalf("unexpected reason: %q", res.Reason)
	}
	if len(res.Discounts) != 2 {
		t.Fatalf("expected brand-level discounts, got %d", len(res.Discounts))
	}
}

func TestResolveStoreScopedDiscountOnlyAtItsBranch(t *testing.T) {
	repo := repository.NewMemory()
	r := New(repo, nil)

	results := r.Resolve(context.Background(), domain.UserProfile{}, []string{
		"탐앤탐스 충무로점",
		"탐앤탐스 동국대점",
	})

	chungmuro := results[0]
	if len(chungmuro.Discounts) != 1 {
		t.Fatalf("expected 1 store-scoped discount at 충무로점, got %d", len(chungmuro.Discounts))
	}
	if !chungmuro.Discounts[0].AppliedByUserProfile {
		t.Fatal("expected STORE-provider discount to be publicly applicable")
	}

	dongguk := results[1]
	if len(dongguk.Discounts) != 0 {
		t.Fatalf("expected no discounts at an unrelated 탐앤탐스 branch, got %d", len(dongguk.Discounts))
	}
}

func TestResolveBareBrandNameNoBranch(t *testing.T) {
	repo := repository.NewMemory()
	r := New(repo, nil)

	results := r.Resolve(context.Background(), domain.UserProfile{}, []string{"스타벅스"})
	res := results[0]
	if !res.Matched {
		t.Fatalf("expected bare brand name to match, err=%v", res.Err)
	}
	if res.Reason != "" {
		t.Fatalf("expected no reason for a bare brand lookup, got %q", res.Reason)
	}
	if len(res.Discounts) != 2 {
		t.Fatalf("expected brand-wide discounts, got %d", len(res.Discounts))
	}
}
