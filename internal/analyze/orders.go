package analyze

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/echohtp/poolboyz/internal/model"
	"github.com/echohtp/poolboyz/internal/pricing"
)

const priceBucketCount = 10

var hundred = decimal.NewFromInt(100)

// volumeBreakpoints are the fixed volume bucket edges in decimal
// input-token units. The last bucket is open-ended.
var volumeBreakpoints = []float64{0, 10, 100, 1_000, 10_000}

// classifyOrder derives the order status. Expiry is checked first, so
// an order that is both past expiry and fully filled reports expired.
func classifyOrder(order model.LimitOrder, now time.Time) model.OrderStatus {
	if order.ExpiredAt != nil && *order.ExpiredAt < now.Unix() {
		return model.OrderExpired
	}
	if order.CurrentMakingAmount == 0 {
		return model.OrderFilled
	}
	if order.CurrentMakingAmount < order.OriginalMakingAmount {
		return model.OrderPartial
	}
	return model.OrderActive
}

// DeriveOrder attaches status, fill percentage, normalized amounts,
// and unit price to a decoded order.
func DeriveOrder(order model.LimitOrder, input, output model.TokenInfo, now time.Time) model.DerivedOrder {
	derived := model.DerivedOrder{
		LimitOrder:  order,
		Status:      classifyOrder(order, now),
		InputToken:  input,
		OutputToken: output,
	}

	if order.OriginalMakingAmount > 0 && order.CurrentMakingAmount <= order.OriginalMakingAmount {
		filled := decimal.NewFromUint64(order.OriginalMakingAmount - order.CurrentMakingAmount)
		derived.FilledPercentage = filled.Mul(hundred).Div(decimal.NewFromUint64(order.OriginalMakingAmount))
	}

	derived.MakingAmount = pricing.AdjustAmount(order.CurrentMakingAmount, input.Decimals)
	derived.TakingAmount = pricing.AdjustAmount(order.CurrentTakingAmount, output.Decimals)

	// A filled order has no forward price; zero is the defined value,
	// not an error.
	if !derived.MakingAmount.IsZero() {
		derived.UnitPrice = derived.TakingAmount.Div(derived.MakingAmount)
	}

	return derived
}

// PriceHistogram distributes observed unit prices over ten equal-width
// buckets spanning [min, max]. Zero-count buckets are omitted.
func PriceHistogram(orders []model.DerivedOrder) []model.HistogramBucket {
	prices := make([]float64, 0, len(orders))
	for _, order := range orders {
		if price := order.UnitPrice.InexactFloat64(); price > 0 {
			prices = append(prices, price)
		}
	}
	if len(prices) == 0 {
		return nil
	}

	sort.Float64s(prices)
	min, max := prices[0], prices[len(prices)-1]
	if min == max {
		return []model.HistogramBucket{{
			Label: fmt.Sprintf("%.6g", min),
			Lower: min,
			Upper: max,
			Count: len(prices),
		}}
	}

	width := (max - min) / priceBucketCount
	counts := make([]int, priceBucketCount)
	for _, price := range prices {
		idx := int((price - min) / width)
		if idx >= priceBucketCount {
			idx = priceBucketCount - 1
		}
		counts[idx]++
	}

	buckets := make([]model.HistogramBucket, 0, priceBucketCount)
	for i, count := range counts {
		if count == 0 {
			continue
		}
		lower := min + float64(i)*width
		upper := lower + width
		buckets = append(buckets, model.HistogramBucket{
			Label: fmt.Sprintf("%.6g-%.6g", lower, upper),
			Lower: lower,
			Upper: upper,
			Count: count,
		})
	}
	return buckets
}

// VolumeHistogram distributes original making amounts (decimal
// input-token units) over the fixed breakpoints 0-10, 10-100, 100-1K,
// 1K-10K, 10K+. Zero-count buckets are omitted.
func VolumeHistogram(orders []model.DerivedOrder) []model.HistogramBucket {
	counts := make([]int, len(volumeBreakpoints))
	for _, order := range orders {
		volume := pricing.AdjustAmount(order.OriginalMakingAmount, order.InputToken.Decimals).InexactFloat64()
		idx := 0
		for i := len(volumeBreakpoints) - 1; i > 0; i-- {
			if volume >= volumeBreakpoints[i] {
				idx = i
				break
			}
		}
		counts[idx]++
	}

	buckets := make([]model.HistogramBucket, 0, len(counts))
	for i, count := range counts {
		if count == 0 {
			continue
		}
		bucket := model.HistogramBucket{Lower: volumeBreakpoints[i], Count: count}
		if i == len(volumeBreakpoints)-1 {
			bucket.Label = fmt.Sprintf("%.0f+", volumeBreakpoints[i])
		} else {
			bucket.Upper = volumeBreakpoints[i+1]
			bucket.Label = fmt.Sprintf("%.0f-%.0f", volumeBreakpoints[i], volumeBreakpoints[i+1])
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}
