package shipping

import "sort"

// Merge 合并所有 tab 的解析结果
// 说明类 tab 先被过滤，剩余 tab 保持拉取顺序；奇数位（第二个）tab 的时效覆盖已合并的时效，
// 约定每条线路由一对 tab 描述，第二个 tab 提供时效信息。band 只追加不去重。
// 合并不修改输入，同一输入多次合并结果相同。
func Merge(tabs []TabResult) *Aggregate {
	agg := &Aggregate{
		Zones:         make(ZoneMap),
		ShippingLines: make(LineMap),
		PerCountry:    make(map[string]CountryInfo),
	}

	var candidates []string
	seen := make(map[string]bool)
	addCountry := func(c string) {
		if !seen[c] {
			seen[c] = true
			candidates = append(candidates, c)
		}
	}

	idx := 0
	for _, tab := range tabs {
		if IsExcludedTab(tab.TabName) {
			continue
		}
		second := idx%2 == 1
		idx++

		parsed := tab.Parsed
		if parsed == nil {
			continue
		}
		agg.TabCount++

		for _, c := range parsed.Countries {
			addCountry(c)
		}

		for _, country := range orderedKeys(parsed.Countries, zoneKeys(parsed.Zones)) {
			src, ok := parsed.Zones[country]
			if !ok {
				continue
			}
			addCountry(country)
			dst, ok := agg.Zones[country]
			if !ok {
				dst = NewCountryZones()
				agg.Zones[country] = dst
			}
			for _, zone := range src.Order {
				mergeLines(dst.ensure(zone), src.Zones[zone], second)
			}
		}

		for _, country := range orderedKeys(parsed.Countries, lineKeys(parsed.ShippingLines)) {
			src, ok := parsed.ShippingLines[country]
			if !ok {
				continue
			}
			addCountry(country)
			dst, ok := agg.ShippingLines[country]
			if !ok {
				dst = NewShippingLines()
				agg.ShippingLines[country] = dst
			}
			mergeLines(dst, src, second)
		}
	}

	// 没有任何可报价线路的国家不对外展示
	for _, c := range candidates {
		if agg.Zones[c].lineCount()+agg.ShippingLines[c].Len() > 0 {
			agg.Countries = append(agg.Countries, c)
		}
	}
	sortCountries(agg.Countries)

	for _, c := range agg.Countries {
		agg.PerCountry[c] = buildCountryInfo(agg, c)
	}
	return agg
}

// mergeLines 将 src 的线路追加到 dst
func mergeLines(dst, src *ShippingLines, second bool) {
	if src == nil {
		return
	}
	for _, key := range src.Order {
		in := src.Entries[key]
		entry, created := dst.ensure(key, in.Name)
		switch {
		case created:
			entry.TransitTime = copyString(in.TransitTime)
		case in.TransitTime != nil && (second || entry.TransitTime == nil):
			entry.TransitTime = copyString(in.TransitTime)
		}
		if entry.Name == "" {
			entry.Name = in.Name
		}
		entry.Bands = append(entry.Bands, in.Bands...)
	}
}

// buildCountryInfo 计算国家的展示信息：分区、线路、最大重量、时效
func buildCountryInfo(agg *Aggregate, country string) CountryInfo {
	zones := agg.Zones[country]
	direct := agg.ShippingLines[country]

	info := CountryInfo{
		HasZones:               zones.lineCount() > 0,
		ZoneNames:              []string{},
		AvailableShippingLines: []ShippingLineInfo{},
	}

	entriesByKey := make(map[string][]*ServiceEntry)
	var keys []string
	collect := func(lines *ShippingLines) {
		if lines == nil {
			return
		}
		for _, k := range lines.Order {
			if _, ok := entriesByKey[k]; !ok {
				keys = append(keys, k)
			}
			entriesByKey[k] = append(entriesByKey[k], lines.Entries[k])
		}
	}

	collect(direct)
	if zones != nil {
		info.ZoneNames = append(info.ZoneNames, zones.Order...)
		for _, z := range zones.Order {
			collect(zones.Zones[z])
		}
	}

	for _, k := range keys {
		line := ShippingLineInfo{Key: k}
		for _, e := range entriesByKey[k] {
			if line.Name == "" {
				line.Name = e.Name
			}
			for i := range e.Bands {
				if b := e.Bands[i].WeightBandKg; b != nil && b.High > line.MaxWeightKg {
					line.MaxWeightKg = b.High
				}
				if b := e.Bands[i].WeightBandLb; b != nil && b.High > line.MaxWeightLb {
					line.MaxWeightLb = b.High
				}
			}
			if line.DeliveryTime == "" {
				line.DeliveryTime = firstDeliveryTime(e)
			}
		}
		if line.Name == "" {
			line.Name = DisplayName(k)
		}
		info.AvailableShippingLines = append(info.AvailableShippingLines, line)
	}
	return info
}

// firstDeliveryTime 线路时效优先，其次第一个带时效的 band
func firstDeliveryTime(e *ServiceEntry) string {
	if e.TransitTime != nil {
		return normalizeDeliveryTime(e.TransitTime)
	}
	for i := range e.Bands {
		if e.Bands[i].TransitTime != nil {
			return normalizeDeliveryTime(e.Bands[i].TransitTime)
		}
	}
	return ""
}

// orderedKeys 先按 preferred 顺序，再补齐剩余 key（排序后）
func orderedKeys(preferred []string, keys []string) []string {
	in := make(map[string]bool, len(keys))
	for _, k := range keys {
		in[k] = true
	}
	out := make([]string, 0, len(keys))
	used := make(map[string]bool, len(keys))
	for _, k := range preferred {
		if in[k] && !used[k] {
			used[k] = true
			out = append(out, k)
		}
	}
	var rest []string
	for _, k := range keys {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func zoneKeys(m ZoneMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func lineKeys(m LineMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
