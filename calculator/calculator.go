// Package calculator derives the consumption and cost figures of a vehicle
// usage session and keeps them in sync while the session is being edited.
package calculator

import (
	"reabastece-api/models"

	"github.com/shopspring/decimal"
)

// RateTable resolves the declared consumption rate for a fuel type.
// models.ConsumptionRates satisfies it.
type RateTable interface {
	RateFor(fuel models.FuelType) *float64
}

// Comparison is the expected vs actual consumption of a session.
type Comparison struct {
	Expected     float64 `json:"expected"`
	Actual       string  `json:"actual"`
	DeviationPct string  `json:"deviation_pct"`
}

// Round rounds half away from zero on the shortest decimal form of v, so
// 1.005 rounds to 1.01 rather than to the binary neighbour 1.00.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// FormatFixed renders v with exactly places decimals using the same rounding as Round.
func FormatFixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// DeriveDistance returns final - initial when both readings are known and the
// odometer moved forward.
func DeriveDistance(initial, final *float64) (float64, bool) {
	if initial == nil || final == nil {
		return 0, false
	}
	if *final <= *initial {
		return 0, false
	}
	return *final - *initial, true
}

// DeriveEstimatedLiters divides the distance by a strictly positive rate.
func DeriveEstimatedLiters(km, rate *float64) (float64, bool) {
	if km == nil || rate == nil || *rate <= 0 {
		return 0, false
	}
	return Round(*km / *rate, 2), true
}

// EstimateLiters looks up the reference rate of fuel in rates and derives the
// fuel volume burnt over km.
func EstimateLiters(km *float64, fuel models.FuelType, rates RateTable) (float64, bool) {
	if rates == nil || !fuel.Valid() {
		return 0, false
	}
	return DeriveEstimatedLiters(km, rates.RateFor(fuel))
}

func DeriveTotalCost(liters, pricePerLiter *float64) (float64, bool) {
	if liters == nil || pricePerLiter == nil {
		return 0, false
	}
	return Round(*liters * *pricePerLiter, 2), true
}

// CostPerDistance is presentation only and never persisted.
func CostPerDistance(totalCost, km *float64) (string, bool) {
	if totalCost == nil || km == nil || *km == 0 {
		return "", false
	}
	return FormatFixed(*totalCost / *km, 3), true
}

// ConsumptionDeviation compares the rate actually achieved (km / liters) with the
// declared one. A positive deviation means the vehicle went farther per unit of
// fuel than declared.
func ConsumptionDeviation(km, liters, expected *float64) (Comparison, bool) {
	if km == nil || liters == nil || expected == nil {
		return Comparison{}, false
	}
	if *liters <= 0 || *expected == 0 {
		return Comparison{}, false
	}

	actual := *km / *liters
	deviation := (actual - *expected) / *expected * 100

	return Comparison{
		Expected:     *expected,
		Actual:       FormatFixed(actual, 2),
		DeviationPct: FormatFixed(deviation, 1),
	}, true
}
