package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oip/dprate/pkg/errorutil"
)

func kgRequest(country, line, zone string, weight float64) *CalculateRequest {
	return &CalculateRequest{
		Country:      country,
		ShippingLine: line,
		Zone:         zone,
		Weight:       weight,
		WeightUnit:   UnitKg,
	}
}

func TestResolveUSStandard(t *testing.T) {
	agg := Merge([]TabResult{
		parsedTab("United States",
			row("Shipping Line", "Weight (kg)", "Freight per kg", "Injection Fee", "Transit"),
			row("Standard", "0-5", "15.00", "5.00", "5-7"),
		),
	})

	result, err := Resolve(agg, kgRequest("United States", "standard", "", 2.5))
	require.NoError(t, err)
	assert.Equal(t, "United States", result.Country)
	assert.Equal(t, "standard", result.ShippingLine)
	assert.Equal(t, "", result.Zone)
	assert.Equal(t, 42.50, result.ShippingCost)
	assert.Equal(t, 1.50, result.FulfillmentFee)
	assert.Equal(t, 44.00, result.TotalCost)
	assert.Equal(t, "5-7", result.DeliveryDays)
	assert.Equal(t, 2.5, result.WeightUsed)
	assert.Equal(t, UnitKg, result.WeightUnit)
	assert.Equal(t, 15.0, result.FreightPerUnit)
	assert.Equal(t, 5.0, result.InjectionFee)
	assert.Equal(t, &WeightBand{Low: 0, High: 5, Unit: UnitKg}, result.MatchedBand)
}

func TestResolveUKExpress(t *testing.T) {
	agg := Merge([]TabResult{
		parsedTab("Express",
			row("Country", "Weight (kg)", "Freight per kg", "Injection Fee"),
			row("United Kingdom", "0-2", "$50.00", "$6.00"),
		),
	})

	result, err := Resolve(agg, kgRequest("United Kingdom", "express", "", 1.0))
	require.NoError(t, err)
	assert.Equal(t, 56.00, result.ShippingCost)
	assert.Equal(t, 57.50, result.TotalCost)
	assert.Equal(t, DeliveryPlaceholder, result.DeliveryDays)

	// 别名同样可以命中
	result, err = Resolve(agg, kgRequest("uk", "Express", "", 1.0))
	require.NoError(t, err)
	assert.Equal(t, "United Kingdom", result.Country)
}

func australiaAggregate() *Aggregate {
	return Merge([]TabResult{
		parsedTab("Express",
			row("Country", "Zone", "Weight (kg)", "Freight per kg", "Injection Fee", "Transit"),
			row("Australia", "Zone 1", "0-5", "20", "3", "4-6"),
			row(nil, "Zone 2", "0-5", "25", "3", "6-8"),
		),
		parsedTab("Default",
			row("Country", "Zone", "Weight (kg)", "Freight per kg", "Injection Fee", "Transit"),
			row("Australia", "Zone 1", "0-5", "10", "2", "7-9"),
		),
	})
}

func TestResolveZoneFallsBackToDefaultLine(t *testing.T) {
	result, err := Resolve(australiaAggregate(), kgRequest("Australia", "standard", "Zone 1", 1))
	require.NoError(t, err)
	assert.Equal(t, "default", result.ShippingLine)
	assert.Equal(t, "Zone 1", result.Zone)
	assert.Equal(t, 12.0, result.ShippingCost)
	assert.Equal(t, 13.5, result.TotalCost)
	assert.Equal(t, "7-9", result.DeliveryDays)
}

func TestResolveZoneLookup(t *testing.T) {
	agg := australiaAggregate()

	// 分区名不区分大小写
	result, err := Resolve(agg, kgRequest("Australia", "express", "zone 2", 1))
	require.NoError(t, err)
	assert.Equal(t, "Zone 2", result.Zone)
	assert.Equal(t, 28.0, result.ShippingCost)

	// 未知分区时遍历所有分区
	result, err = Resolve(agg, kgRequest("Australia", "express", "Zone 9", 1))
	require.NoError(t, err)
	assert.Equal(t, "Zone 1", result.Zone)

	// 只有分区数据且未指定分区
	_, err = Resolve(agg, kgRequest("Australia", "express", "", 1))
	require.Error(t, err)
	assert.True(t, errorutil.IsReason(err, errorutil.ReasonRateNotFound))
	e := errorutil.Wrap(err)
	assert.Equal(t, []string{"express", "default"}, e.Details["available_shipping_lines"])
}

func TestResolveServiceMatchCascade(t *testing.T) {
	lines := NewShippingLines()
	for _, k := range []string{"priority", "ground-advantage", "express"} {
		e, _ := lines.ensure(k, DisplayName(k))
		e.Bands = []PricingRecord{kgBand(0, 10, 1, 0)}
	}

	tests := []struct {
		key  string
		want string
	}{
		{"express", "express"},
		{"ground", "ground-advantage"},
		{"priority-mail", "priority"},
		{"economy", "priority"},
	}
	for _, tt := range tests {
		_, got, ok := matchService(lines, tt.key)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, tt.key)
	}

	e, _ := lines.ensure("standard", "Standard")
	e.Bands = []PricingRecord{kgBand(0, 10, 1, 0)}
	_, got, _ := matchService(lines, "economy")
	assert.Equal(t, "standard", got)

	_, _, ok := matchService(nil, "express")
	assert.False(t, ok)
}

func TestResolveUnknownCountry(t *testing.T) {
	agg := flatAggregate("Germany", "express", &ServiceEntry{Bands: []PricingRecord{kgBand(0, 2, 10, 1)}})

	_, err := Resolve(agg, kgRequest("Atlantis", "express", "", 1))
	require.Error(t, err)
	assert.True(t, errorutil.IsReason(err, errorutil.ReasonRateNotFound))
	assert.Equal(t, []string{}, errorutil.Wrap(err).Details["available_shipping_lines"])
}

func TestResolveWeightExceedsLimit(t *testing.T) {
	agg := flatAggregate("Germany", "express", &ServiceEntry{Bands: []PricingRecord{
		kgBand(0, 2, 10, 1),
		kgBand(2, 5, 8, 1),
	}})

	_, err := Resolve(agg, kgRequest("Germany", "express", "", 5.01))
	require.Error(t, err)
	e := errorutil.Wrap(err)
	assert.Equal(t, errorutil.ReasonWeightExceedsLimit, e.Reason)
	assert.Equal(t, 5.0, e.Details["max_weight"])
	assert.Equal(t, "kg", e.Details["unit"])
}

func TestResolveLastBandFallback(t *testing.T) {
	agg := flatAggregate("Germany", "express", &ServiceEntry{Bands: []PricingRecord{
		kgBand(0, 1, 10, 0),
		kgBand(2, 5, 8, 0),
	}})

	// 区间之间的空隙
	result, err := Resolve(agg, kgRequest("Germany", "express", "", 1.5))
	require.NoError(t, err)
	assert.Equal(t, 12.0, result.ShippingCost)
	assert.Equal(t, 2.0, result.MatchedBand.Low)

	// 正好等于最大上界：半开区间不包含，落到最后一个区间
	result, err = Resolve(agg, kgRequest("Germany", "express", "", 5))
	require.NoError(t, err)
	assert.Equal(t, 40.0, result.ShippingCost)
}

func TestResolveLastBandFallbackSkipsOtherUnit(t *testing.T) {
	lbOnly := PricingRecord{
		WeightBandLb: &WeightBand{Low: 0, High: 20, Unit: UnitLb},
		FreightPerLb: floatPtr(3),
		InjectionFee: 4,
	}
	agg := flatAggregate("Germany", "express", &ServiceEntry{Bands: []PricingRecord{
		kgBand(0, 1, 10, 0),
		kgBand(1, 5, 8, 2),
		lbOnly,
	}})

	// 最后一条记录只有 lb 区间，kg 请求应落到最后一个 kg 区间
	result, err := Resolve(agg, kgRequest("Germany", "express", "", 5))
	require.NoError(t, err)
	assert.Equal(t, UnitKg, result.WeightUnit)
	assert.Equal(t, 8.0, result.FreightPerUnit)
	assert.Equal(t, 42.0, result.ShippingCost)
	require.NotNil(t, result.MatchedBand)
	assert.Equal(t, 1.0, result.MatchedBand.Low)

	assert.Nil(t, matchBand([]PricingRecord{lbOnly}, UnitKg, 1))
}

func TestResolveCrossUnitFallback(t *testing.T) {
	agg := flatAggregate("Canada", "ground", &ServiceEntry{Bands: []PricingRecord{{
		WeightBandLb: &WeightBand{Low: 0, High: 10, Unit: UnitLb},
		FreightPerLb: floatPtr(2),
		InjectionFee: 1,
	}}})

	result, err := Resolve(agg, kgRequest("Canada", "ground", "", 1))
	require.NoError(t, err)
	assert.Equal(t, UnitLb, result.WeightUnit)
	assert.Equal(t, 2.2, result.WeightUsed)
	assert.Equal(t, 5.41, result.ShippingCost)
	assert.Equal(t, 6.91, result.TotalCost)
	assert.Equal(t, 1.0, result.WeightKg)
	assert.Equal(t, 2.2, result.WeightLb)
}

func TestResolveDeliveryDays(t *testing.T) {
	band := kgBand(0, 5, 1, 0)

	withTransit := func(bandTransit, lineTransit *string) string {
		b := band
		b.TransitTime = bandTransit
		agg := flatAggregate("Japan", "express", &ServiceEntry{
			Bands:       []PricingRecord{b},
			TransitTime: lineTransit,
		})
		result, err := Resolve(agg, kgRequest("Japan", "express", "", 1))
		require.NoError(t, err)
		return result.DeliveryDays
	}

	assert.Equal(t, "3-5", withTransit(strPtr("3-5"), strPtr("9")))
	assert.Equal(t, "9", withTransit(nil, strPtr("9")))
	assert.Equal(t, DeliveryPlaceholder, withTransit(nil, nil))
	assert.Equal(t, DeliveryPlaceholder, withTransit(strPtr("45123"), strPtr("9")))
	assert.Equal(t, DeliveryPlaceholder, withTransit(strPtr("2500"), nil))
}

func TestResolveNilAggregate(t *testing.T) {
	_, err := Resolve(nil, kgRequest("Japan", "express", "", 1))
	assert.True(t, errorutil.IsReason(err, errorutil.ReasonServiceNotConfigured))
}

func TestMatchBandContainsWeight(t *testing.T) {
	bands := []PricingRecord{
		kgBand(0, 0.5, 1, 0),
		kgBand(0.5, 1, 1, 0),
		kgBand(1, 2.5, 1, 0),
		kgBand(2.5, 10, 1, 0),
	}
	for w := 0.01; w < 10; w += 0.07 {
		b := matchBand(bands, UnitKg, w)
		require.NotNil(t, b)
		assert.True(t, b.WeightBandKg.Contains(w), "weight %.2f", w)
	}
	assert.Nil(t, matchBand(nil, UnitKg, 1))
}
