package calculator

import (
	"testing"

	"reabastece-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDistance(t *testing.T) {
	tests := []struct {
		name    string
		initial *float64
		final   *float64
		want    float64
		ok      bool
	}{
		{name: "forward reading", initial: Float(10000), final: Float(10450), want: 450, ok: true},
		{name: "equal readings", initial: Float(10000), final: Float(10000), ok: false},
		{name: "backwards reading", initial: Float(10450), final: Float(10000), ok: false},
		{name: "missing initial", initial: nil, final: Float(10450), ok: false},
		{name: "missing final", initial: Float(10000), final: nil, ok: false},
		{name: "zero initial is a value", initial: Float(0), final: Float(12), want: 12, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveDistance(tt.initial, tt.final)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDeriveDistance_MatchesDifference(t *testing.T) {
	for initial := 0.0; initial < 5000; initial += 997 {
		for delta := 1.0; delta < 3000; delta += 331 {
			got, ok := DeriveDistance(Float(initial), Float(initial+delta))
			require.True(t, ok)
			assert.Equal(t, delta, got)
		}
	}
}

func TestDeriveEstimatedLiters(t *testing.T) {
	tests := []struct {
		name string
		km   *float64
		rate *float64
		want float64
		ok   bool
	}{
		{name: "exact", km: Float(450), rate: Float(7.5), want: 60, ok: true},
		{name: "rounded to cents", km: Float(100), rate: Float(3), want: 33.33, ok: true},
		{name: "rounds half away from zero", km: Float(1.005), rate: Float(1), want: 1.01, ok: true},
		{name: "zero distance", km: Float(0), rate: Float(12), want: 0, ok: true},
		{name: "zero rate", km: Float(100), rate: Float(0), ok: false},
		{name: "negative rate", km: Float(100), rate: Float(-4), ok: false},
		{name: "absent rate", km: Float(100), rate: nil, ok: false},
		{name: "absent distance", km: nil, rate: Float(10), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveEstimatedLiters(tt.km, tt.rate)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEstimateLiters_UsesRateOfSessionFuel(t *testing.T) {
	rates := models.ConsumptionRates{
		GasolineConsumption: Float(12),
		EthanolConsumption:  Float(7.5),
	}

	got, ok := EstimateLiters(Float(450), models.FuelGasoline, rates)
	require.True(t, ok)
	assert.Equal(t, 37.5, got)

	got, ok = EstimateLiters(Float(450), models.FuelEthanol, rates)
	require.True(t, ok)
	assert.Equal(t, 60.0, got)

	_, ok = EstimateLiters(Float(450), models.FuelDiesel, rates)
	assert.False(t, ok)

	_, ok = EstimateLiters(Float(450), models.FuelType("kerosene"), rates)
	assert.False(t, ok)

	_, ok = EstimateLiters(Float(450), models.FuelGasoline, nil)
	assert.False(t, ok)
}

func TestDeriveTotalCost(t *testing.T) {
	got, ok := DeriveTotalCost(Float(60), Float(4.329))
	require.True(t, ok)
	assert.Equal(t, 259.74, got)

	got, ok = DeriveTotalCost(Float(10), Float(5))
	require.True(t, ok)
	assert.Equal(t, 50.0, got)

	_, ok = DeriveTotalCost(nil, Float(5))
	assert.False(t, ok)

	_, ok = DeriveTotalCost(Float(10), nil)
	assert.False(t, ok)
}

func TestCostPerDistance(t *testing.T) {
	got, ok := CostPerDistance(Float(259.74), Float(450))
	require.True(t, ok)
	assert.Equal(t, "0.577", got)

	_, ok = CostPerDistance(Float(259.74), Float(0))
	assert.False(t, ok)

	_, ok = CostPerDistance(nil, Float(450))
	assert.False(t, ok)
}

func TestConsumptionDeviation(t *testing.T) {
	tests := []struct {
		name     string
		km       *float64
		liters   *float64
		expected *float64
		actual   string
		pct      string
		ok       bool
	}{
		{name: "as declared", km: Float(450), liters: Float(60), expected: Float(7.5), actual: "7.50", pct: "0.0", ok: true},
		{name: "better than declared", km: Float(500), liters: Float(40), expected: Float(10), actual: "12.50", pct: "25.0", ok: true},
		{name: "worse than declared", km: Float(300), liters: Float(40), expected: Float(10), actual: "7.50", pct: "-25.0", ok: true},
		{name: "no liters", km: Float(300), liters: Float(0), expected: Float(10), ok: false},
		{name: "no expected rate", km: Float(300), liters: Float(40), expected: nil, ok: false},
		{name: "zero expected rate", km: Float(300), liters: Float(40), expected: Float(0), ok: false},
		{name: "negative expected rate still compares", km: Float(300), liters: Float(40), expected: Float(-10), actual: "7.50", pct: "-175.0", ok: true},
		{name: "no distance", km: nil, liters: Float(40), expected: Float(10), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConsumptionDeviation(tt.km, tt.liters, tt.expected)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, *tt.expected, got.Expected)
				assert.Equal(t, tt.actual, got.Actual)
				assert.Equal(t, tt.pct, got.DeviationPct)
			}
		})
	}
}

func TestRoundAndFormat(t *testing.T) {
	assert.Equal(t, 2.68, Round(2.675, 2))
	assert.Equal(t, -2.68, Round(-2.675, 2))
	assert.Equal(t, 0.58, Round(0.5772, 2))
	assert.Equal(t, "0.578", FormatFixed(0.5775, 3))
	assert.Equal(t, "12.0", FormatFixed(12, 1))
}
