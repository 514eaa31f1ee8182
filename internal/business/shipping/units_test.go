package shipping

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWeightUnit(t *testing.T) {
	tests := []struct {
		in   string
		want WeightUnit
		ok   bool
	}{
		{"", UnitKg, true},
		{"kg", UnitKg, true},
		{" KGS ", UnitKg, true},
		{"lb", UnitLb, true},
		{"Pounds", UnitLb, true},
		{"oz", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseWeightUnit(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestConvertWeight(t *testing.T) {
	assert.InDelta(t, 0.453592, ConvertWeight(1, UnitLb, UnitKg), 1e-12)
	assert.InDelta(t, 2.204623, ConvertWeight(1, UnitKg, UnitLb), 1e-6)
	assert.Equal(t, 3.0, ConvertWeight(3, UnitKg, UnitKg))
	assert.Equal(t, UnitLb, UnitKg.Other())
	assert.Equal(t, UnitKg, UnitLb.Other())
}

func TestConvertWeightRoundTrip(t *testing.T) {
	for _, w := range []float64{0.01, 0.11, 0.25, 1, 2.5, 13.37, 100, 9999.99} {
		back := ConvertWeight(ConvertWeight(w, UnitKg, UnitLb), UnitLb, UnitKg)
		assert.LessOrEqual(t, math.Abs(back-w)/w, 1e-6, "w=%v", w)

		back = ConvertWeight(ConvertWeight(w, UnitLb, UnitKg), UnitKg, UnitLb)
		assert.LessOrEqual(t, math.Abs(back-w)/w, 1e-6, "w=%v", w)
	}
}

func TestRoundTo2Decimals(t *testing.T) {
	assert.Equal(t, 42.5, roundTo2Decimals(42.499999))
	assert.Equal(t, 1.01, roundTo2Decimals(1.005000001))
	assert.Equal(t, 0.0, roundTo2Decimals(0.001))
}
