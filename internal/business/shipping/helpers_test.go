package shipping

func row(cells ...Cell) []Cell {
	return cells
}

func parsedTab(name string, rows ...[]Cell) TabResult {
	return TabResult{TabName: name, Parsed: ParseTab(rows, name)}
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

// kgBand 只含 kg 区间的费率记录
func kgBand(low, high, freight, injection float64) PricingRecord {
	return PricingRecord{
		WeightBandKg: &WeightBand{Low: low, High: high, Unit: UnitKg},
		FreightPerKg: floatPtr(freight),
		InjectionFee: injection,
	}
}

// flatAggregate 单国家单线路（无分区）的合并数据
func flatAggregate(country, key string, entry *ServiceEntry) *Aggregate {
	lines := NewShippingLines()
	e, _ := lines.ensure(key, DisplayName(key))
	*e = *entry
	if e.Name == "" {
		e.Name = DisplayName(key)
	}
	agg := &Aggregate{
		Countries:     []string{country},
		Zones:         ZoneMap{},
		ShippingLines: LineMap{country: lines},
		PerCountry:    map[string]CountryInfo{},
	}
	agg.PerCountry[country] = buildCountryInfo(agg, country)
	return agg
}
