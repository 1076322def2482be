package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal_final_backend/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test")
}

// wrappedDiscountsPayload matches the "{"discount": {"discounts_by_store":
// {...}}}" wrapper shape, with one discount entry serialized as a
// ".NET ToString()" record, exactly as the upstream discount service emits
// it (§4.6).
const wrappedDiscountsPayload = `{
  "discount": {
    "discounts_by_store": {
      "스타벅스 동국대점": {
        "discounts": [
          "@{discountId=d-1; discountName=20% 청구할인; providerType=PAYMENT; providerName=신한카드; shape=@{kind=PERCENT; amount=20.0; maxAmount=3000.0; unitRule=}; constraints=@{validFrom=; validTo=; dayOfWeekMask=; timeFrom=; timeTo=; channelLimit=; requiredLevel=; qualification=; applicationMenu=}; requiredConditions=@{payments=신한카드; telcos=System.Object[]; memberships=System.Object[]; affiliations=System.Object[]}; appliedByUserProfile=False; isDiscount=True}"
        ]
      }
    }
  }
}`

func newRemoteAgainst(t *testing.T, body string) *Remote {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discounts" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	r := NewRemote(server.URL, "", testLogger())
	return r
}

func TestRemoteFindBrandMatchesByMerchantPrefix(t *testing.T) {
	r := newRemoteAgainst(t, wrappedDiscountsPayload)

	brand, err := r.FindBrand(context.Background(), "스타벅스")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if brand == nil {
		t.Fatal("expected brand to be found via merchant-name prefix match")
	}
}

func TestRemoteFindApplicableDiscountsDecodesDotNetStyleRecord(t *testing.T) {
	r := newRemoteAgainst(t, wrappedDiscountsPayload)

	programs, err := r.FindApplicableDiscounts(context.Background(), "스타벅스", strPtr("스타벅스 동국대점"), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(programs) != 1 {
		t.Fatalf("expected exactly one decoded discount, got %d", len(programs))
	}
	d := programs[0]
	if d.DiscountID != "d-1" {
		t.Fatalf("unexpected discount id: %q", d.DiscountID)
	}
	if d.Shape.Percent != 20.0 {
		t.Fatalf("expected the stringified shape record to decode to 20%%, got %v", d.Shape.Percent)
	}
	if d.Shape.MaxAmount == nil || *d.Shape.MaxAmount != 3000.0 {
		t.Fatalf("expected maxAmount 3000, got %v", d.Shape.MaxAmount)
	}
	if len(d.RequiredConditions.Payments) != 1 || d.RequiredConditions.Payments[0] != "신한카드" {
		t.Fatalf("expected the stringified requiredConditions record to decode payments, got %+v", d.RequiredConditions)
	}
}

func TestRemoteLoadRequiredConditionsReadsFromTheSameDecode(t *testing.T) {
	r := newRemoteAgainst(t, wrappedDiscountsPayload)

	if _, err := r.FindApplicableDiscounts(context.Background(), "스타벅스", strPtr("스타벅스 동국대점"), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conditions, err := r.LoadRequiredConditions(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conditions.Payments) != 1 || conditions.Payments[0] != "신한카드" {
		t.Fatalf("expected cached conditions for d-1, got %+v", conditions)
	}
}

func TestRemoteFindBranchReturnsNilWhenMerchantUnknown(t *testing.T) {
	r := newRemoteAgainst(t, wrappedDiscountsPayload)

	branch, err := r.FindBranch(context.Background(), "스타벅스", "잠실점")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if branch != nil {
		t.Fatal("expected no branch match for an unknown store")
	}
}

func strPtr(s string) *string { return &s }
