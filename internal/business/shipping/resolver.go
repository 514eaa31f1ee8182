package shipping

import (
	"fmt"
	"strings"

	"oip/dprate/pkg/errorutil"
)

// FulfillmentFee 固定履约费，与输入无关
const FulfillmentFee = 1.50

// 线路兜底 key，按顺序尝试
var fallbackLineKeys = []string{"default", "standard"}

// Resolve 在合并数据中查找匹配的费率区间并计算运费
// req 需先经过 Validate
func Resolve(agg *Aggregate, req *CalculateRequest) (*CalculationResult, error) {
	if agg == nil {
		return nil, errorutil.ServiceNotConfigured("shipping rates are not loaded", nil)
	}

	key := NormalizeKey(req.ShippingLine)
	country, ok := resolveCountry(agg, req.Country)
	if !ok {
		return nil, errorutil.RateNotFound(
			fmt.Sprintf("no shipping rates found for country %q", req.Country), nil)
	}

	entry, matchedKey, matchedZone := lookupService(agg, country, key, strings.TrimSpace(req.Zone))
	if entry == nil || len(entry.Bands) == 0 {
		return nil, errorutil.RateNotFound(
			fmt.Sprintf("no rate found for shipping line %q in %s", req.ShippingLine, country),
			availableLineKeys(agg, country))
	}

	reqUnit, ok := ParseWeightUnit(string(req.WeightUnit))
	if !ok {
		return nil, errorutil.InvalidWeight("weight_unit must be kg or lb, got %q", req.WeightUnit)
	}

	// 该线路没有请求单位的区间时，改用另一单位计价
	unit := reqUnit
	if !hasUnit(entry.Bands, unit) && hasUnit(entry.Bands, unit.Other()) {
		unit = unit.Other()
	}
	weight := ConvertWeight(req.Weight, reqUnit, unit)

	maxWeight := maxUpperBound(entry.Bands, unit)
	if maxWeight > 0 && weight > maxWeight {
		return nil, errorutil.WeightExceedsLimit(roundTo2Decimals(maxWeight), string(unit))
	}

	band := matchBand(entry.Bands, unit, weight)
	if band == nil {
		return nil, errorutil.NoBandMatch(
			fmt.Sprintf("no weight band available for shipping line %q in %s", matchedKey, country))
	}

	freight := 0.0
	if f := band.Freight(unit); f != nil {
		freight = *f
	}
	shippingCost := freight*weight + band.InjectionFee

	return &CalculationResult{
		Country:        country,
		Zone:           matchedZone,
		ShippingLine:   matchedKey,
		ShippingCost:   roundTo2Decimals(shippingCost),
		FulfillmentFee: roundTo2Decimals(FulfillmentFee),
		TotalCost:      roundTo2Decimals(shippingCost + FulfillmentFee),
		DeliveryDays:   deliveryDays(band, entry),
		WeightUsed:     roundTo2Decimals(weight),
		WeightUnit:     unit,
		FreightPerUnit: roundTo2Decimals(freight),
		InjectionFee:   roundTo2Decimals(band.InjectionFee),
		WeightKg:       roundTo2Decimals(ToKg(req.Weight, reqUnit)),
		WeightLb:       roundTo2Decimals(ToLb(req.Weight, reqUnit)),
		MatchedBand:    band.Band(unit),
	}, nil
}

// resolveCountry 先精确匹配，再按大小写/别名匹配
func resolveCountry(agg *Aggregate, country string) (string, bool) {
	country = strings.TrimSpace(country)
	if _, ok := agg.PerCountry[country]; ok {
		return country, true
	}
	for _, c := range agg.Countries {
		if sameCountry(c, country) {
			return c, true
		}
	}
	return "", false
}

// lookupService 查找线路：
// 1. 指定分区时先查该分区；2. 查无分区线路；3. 指定分区但未命中时遍历所有分区
func lookupService(agg *Aggregate, country, key, zone string) (*ServiceEntry, string, string) {
	zones := agg.Zones[country]

	if zone != "" && zones != nil {
		if name, ok := findZone(zones, zone); ok {
			if e, k, ok := matchService(zones.Zones[name], key); ok {
				return e, k, name
			}
		}
	}

	if e, k, ok := matchService(agg.ShippingLines[country], key); ok {
		return e, k, ""
	}

	if zone != "" && zones != nil {
		for _, name := range zones.Order {
			if e, k, ok := matchService(zones.Zones[name], key); ok {
				return e, k, name
			}
		}
	}
	return nil, "", ""
}

// matchService 精确 → 互相包含 → default → standard → 第一条
// TODO: 宽松兜底可能把不存在的线路解析成无关线路，待产品确认后改为仅精确匹配
func matchService(lines *ShippingLines, key string) (*ServiceEntry, string, bool) {
	if lines.Len() == 0 {
		return nil, "", false
	}
	if e, ok := lines.Entries[key]; ok {
		return e, key, true
	}
	for _, k := range lines.Order {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			return lines.Entries[k], k, true
		}
	}
	for _, k := range fallbackLineKeys {
		if e, ok := lines.Entries[k]; ok {
			return e, k, true
		}
	}
	first := lines.Order[0]
	return lines.Entries[first], first, true
}

func findZone(zones *CountryZones, zone string) (string, bool) {
	if _, ok := zones.Zones[zone]; ok {
		return zone, true
	}
	for _, name := range zones.Order {
		if strings.EqualFold(name, zone) {
			return name, true
		}
	}
	return "", false
}

// availableLineKeys 国家下所有可见线路（无分区 + 各分区）
func availableLineKeys(agg *Aggregate, country string) []string {
	keys := []string{}
	seen := make(map[string]bool)
	add := func(lines *ShippingLines) {
		if lines == nil {
			return
		}
		for _, k := range lines.Order {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	if zones := agg.Zones[country]; zones != nil {
		for _, z := range zones.Order {
			add(zones.Zones[z])
		}
	}
	add(agg.ShippingLines[country])
	return keys
}

func hasUnit(bands []PricingRecord, unit WeightUnit) bool {
	for i := range bands {
		if bands[i].Band(unit) != nil {
			return true
		}
	}
	return false
}

// maxUpperBound 所有区间上界的最大值
func maxUpperBound(bands []PricingRecord, unit WeightUnit) float64 {
	limit := 0.0
	for i := range bands {
		if b := bands[i].Band(unit); b != nil && b.High > limit {
			limit = b.High
		}
	}
	return limit
}

// matchBand 按存储顺序取第一个包含该重量的区间，均不命中时取最后一个带该单位区间的记录
func matchBand(bands []PricingRecord, unit WeightUnit, weight float64) *PricingRecord {
	for i := range bands {
		if b := bands[i].Band(unit); b != nil && b.Contains(weight) {
			return &bands[i]
		}
	}
	for i := len(bands) - 1; i >= 0; i-- {
		if bands[i].Band(unit) != nil {
			return &bands[i]
		}
	}
	return nil
}

// deliveryDays band 时效 → 线路时效 → 占位值；损坏的值直接替换为占位值
func deliveryDays(band *PricingRecord, entry *ServiceEntry) string {
	transit := band.TransitTime
	if transit == nil {
		transit = entry.TransitTime
	}
	if s, ok := sanitizeTransit(transit); ok {
		return s
	}
	return DeliveryPlaceholder
}
