package analyze

import (
	"testing"
	"time"

	"github.com/echohtp/poolboyz/internal/model"
)

var testNow = time.Unix(1_800_000_000, 0)

func tokenSix() model.TokenInfo {
	return model.TokenInfo{Symbol: "AAA", Decimals: 6}
}

func makeOrder(original, current, taking uint64, expiry *int64) model.LimitOrder {
	return model.LimitOrder{
		OriginalMakingAmount: original,
		OriginalTakingAmount: 2 * original,
		CurrentMakingAmount:  current,
		CurrentTakingAmount:  taking,
		ExpiredAt:            expiry,
	}
}

func past() *int64 {
	ts := testNow.Unix() - 100
	return &ts
}

func future() *int64 {
	ts := testNow.Unix() + 100
	return &ts
}

func TestClassifyOrder(t *testing.T) {
	cases := []struct {
		name  string
		order model.LimitOrder
		want  model.OrderStatus
	}{
		{"untouched no expiry", makeOrder(1000, 1000, 2000, nil), model.OrderActive},
		{"untouched future expiry", makeOrder(1000, 1000, 2000, future()), model.OrderActive},
		{"partially filled", makeOrder(1000, 400, 800, nil), model.OrderPartial},
		{"fully filled", makeOrder(1000, 0, 0, nil), model.OrderFilled},
		{"past expiry", makeOrder(1000, 1000, 2000, past()), model.OrderExpired},
		// Expiry is checked before fill: expired-and-filled is expired.
		{"past expiry and filled", makeOrder(1000, 0, 0, past()), model.OrderExpired},
	}

	for _, tc := range cases {
		if got := classifyOrder(tc.order, testNow); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDeriveOrderFilledPercentage(t *testing.T) {
	derived := DeriveOrder(makeOrder(1000, 400, 800, nil), tokenSix(), tokenSix(), testNow)
	if derived.FilledPercentage.String() != "60" {
		t.Fatalf("filled percentage mismatch: %s", derived.FilledPercentage)
	}

	zeroOriginal := DeriveOrder(makeOrder(0, 0, 0, nil), tokenSix(), tokenSix(), testNow)
	if !zeroOriginal.FilledPercentage.IsZero() {
		t.Fatalf("zero original should yield zero percentage: %s", zeroOriginal.FilledPercentage)
	}
}

func TestDeriveOrderUnitPrice(t *testing.T) {
	derived := DeriveOrder(makeOrder(400_000_000, 400_000_000, 800_000_000, nil), tokenSix(), tokenSix(), testNow)
	if derived.UnitPrice.String() != "2" {
		t.Fatalf("unit price mismatch: %s", derived.UnitPrice)
	}

	// Zero denominator is a defined zero, not an error.
	filled := DeriveOrder(makeOrder(1000, 0, 500, nil), tokenSix(), tokenSix(), testNow)
	if !filled.UnitPrice.IsZero() {
		t.Fatalf("filled order price should be zero: %s", filled.UnitPrice)
	}
}

func TestDeriveOrderNormalizedAmounts(t *testing.T) {
	input := model.TokenInfo{Symbol: "IN", Decimals: 9}
	output := model.TokenInfo{Symbol: "OUT", Decimals: 6}
	derived := DeriveOrder(makeOrder(0, 1_500_000_000, 3_000_000, nil), input, output, testNow)

	if derived.MakingAmount.String() != "1.5" {
		t.Fatalf("making amount mismatch: %s", derived.MakingAmount)
	}
	if derived.TakingAmount.String() != "3" {
		t.Fatalf("taking amount mismatch: %s", derived.TakingAmount)
	}
}

func TestPriceHistogramOmitsEmptyBuckets(t *testing.T) {
	orders := []model.DerivedOrder{
		DeriveOrder(makeOrder(0, 1_000_000, 1_000_000, nil), tokenSix(), tokenSix(), testNow),  // price 1
		DeriveOrder(makeOrder(0, 1_000_000, 2_000_000, nil), tokenSix(), tokenSix(), testNow),  // price 2
		DeriveOrder(makeOrder(0, 1_000_000, 11_000_000, nil), tokenSix(), tokenSix(), testNow), // price 11
	}

	// Prices 1, 2, 11 with width 1 land in buckets 0, 1, and 9; the
	// seven empty buckets in between are omitted.
	buckets := PriceHistogram(orders)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 non-empty buckets, got %d: %+v", len(buckets), buckets)
	}
	total := 0
	for _, bucket := range buckets {
		total += bucket.Count
	}
	if total != 3 {
		t.Fatalf("bucket counts should cover all prices: %d", total)
	}
}

func TestPriceHistogramSinglePrice(t *testing.T) {
	orders := []model.DerivedOrder{
		DeriveOrder(makeOrder(0, 1_000_000, 2_000_000, nil), tokenSix(), tokenSix(), testNow),
		DeriveOrder(makeOrder(0, 2_000_000, 4_000_000, nil), tokenSix(), tokenSix(), testNow),
	}
	buckets := PriceHistogram(orders)
	if len(buckets) != 1 || buckets[0].Count != 2 {
		t.Fatalf("single-price histogram mismatch: %+v", buckets)
	}
}

func TestPriceHistogramNoPrices(t *testing.T) {
	orders := []model.DerivedOrder{
		DeriveOrder(makeOrder(1000, 0, 0, nil), tokenSix(), tokenSix(), testNow),
	}
	if buckets := PriceHistogram(orders); buckets != nil {
		t.Fatalf("expected nil histogram, got %+v", buckets)
	}
}

func TestVolumeHistogramBreakpoints(t *testing.T) {
	volumes := []uint64{
		5_000_000,          // 5 -> 0-10
		50_000_000,         // 50 -> 10-100
		500_000_000,        // 500 -> 100-1K
		5_000_000_000,      // 5000 -> 1K-10K
		50_000_000_000,     // 50000 -> 10K+
		7_000_000,          // 7 -> 0-10
	}
	orders := make([]model.DerivedOrder, 0, len(volumes))
	for _, v := range volumes {
		order := model.LimitOrder{OriginalMakingAmount: v, CurrentMakingAmount: v}
		orders = append(orders, DeriveOrder(order, tokenSix(), tokenSix(), testNow))
	}

	buckets := VolumeHistogram(orders)
	if len(buckets) != 5 {
		t.Fatalf("expected 5 buckets, got %d: %+v", len(buckets), buckets)
	}
	if buckets[0].Label != "0-10" || buckets[0].Count != 2 {
		t.Fatalf("first bucket mismatch: %+v", buckets[0])
	}
	if buckets[4].Label != "10000+" || buckets[4].Count != 1 {
		t.Fatalf("open bucket mismatch: %+v", buckets[4])
	}
}
