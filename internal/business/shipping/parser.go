package shipping

// USCountry 美国 tab 的默认国家
const USCountry = "United States"

// defaultLineKey 既无线路列、tab 名也无法识别线路时使用
const defaultLineKey = "default"

// rowState 逐行折叠的状态：国家/分区/线路在出现新的非空值前一直沿用
type rowState struct {
	Country      string
	Zone         string
	ShippingLine string
	LineName     string
}

// tabParser 单个 tab 的解析上下文
type tabParser struct {
	tabName string
	cols    columnIndex
	isUS    bool
	out     *ParsedTab
	seen    map[string]bool
}

// ParseTab 将 tab 的二维单元格解析为结构化费率
// 第 0 行为表头；之后每行对 rowState 做一次折叠
func ParseTab(rows [][]Cell, tabName string) *ParsedTab {
	out := NewParsedTab()
	if IsExcludedTab(tabName) || len(rows) < 2 {
		return out
	}

	p := &tabParser{
		tabName: tabName,
		cols:    detectColumns(rows[0]),
		isUS:    IsUSTab(tabName),
		out:     out,
		seen:    make(map[string]bool),
	}

	state := p.initialState()
	for _, row := range rows[1:] {
		state = p.step(state, row)
	}
	return out
}

// initialState 初始状态
// 美国 tab 预置国家；非美国 tab 以 tab 名推导默认线路
func (p *tabParser) initialState() rowState {
	var s rowState
	if p.isUS {
		s.Country = USCountry
		p.addCountry(USCountry)
	}

	hasLineColumn := p.cols.ShippingLine >= 0
	if p.isUS && hasLineColumn {
		// 美国 tab 可能在一张表里列出多条线路，线路只从行内读取
		return s
	}

	class := ClassifyTab(p.tabName)
	switch {
	case class.ShippingLineKey != "":
		s.ShippingLine = class.ShippingLineKey
		s.LineName = class.DisplayName
	case !hasLineColumn:
		s.ShippingLine = defaultLineKey
		s.LineName = DisplayName(defaultLineKey)
	}
	return s
}

// step 处理一行：先更新状态，再尝试产出费率记录
func (p *tabParser) step(s rowState, row []Cell) rowState {
	next := s

	if v := cellAt(row, p.cols.Country); v != "" {
		next.Country = v
		next.Zone = ""
		p.addCountry(v)
	}
	if v := cellAt(row, p.cols.Zone); v != "" {
		next.Zone = v
	}
	if v := cellAt(row, p.cols.ShippingLine); v != "" {
		next.ShippingLine = NormalizeKey(v)
		next.LineName = DisplayName(v)
	}

	rec, ok := p.record(row)
	if !ok || next.Country == "" || next.ShippingLine == "" {
		return next
	}

	p.store(next, rec)
	return next
}

// record 解析费率字段；两种单位的区间都无法解析时返回 false
func (p *tabParser) record(row []Cell) (PricingRecord, bool) {
	bandLb := parseBand(cellAt(row, p.cols.WeightLb), UnitLb)
	bandKg := parseBand(cellAt(row, p.cols.WeightKg), UnitKg)
	if bandLb == nil && bandKg == nil {
		return PricingRecord{}, false
	}

	rec := PricingRecord{
		WeightBandLb: bandLb,
		WeightBandKg: bandKg,
		FreightPerLb: parseMoney(cellAt(row, p.cols.FreightLb)),
		FreightPerKg: parseMoney(cellAt(row, p.cols.FreightKg)),
	}
	if fee := parseMoney(cellAt(row, p.cols.Injection)); fee != nil {
		rec.InjectionFee = *fee
	}
	if t := cellAt(row, p.cols.Transit); t != "" {
		rec.TransitTime = &t
	}
	return rec, true
}

// store 有分区写入 Zones，否则写入 ShippingLines；首次创建时以记录自身时效作为线路时效
func (p *tabParser) store(s rowState, rec PricingRecord) {
	var lines *ShippingLines
	if s.Zone != "" {
		zones, ok := p.out.Zones[s.Country]
		if !ok {
			zones = NewCountryZones()
			p.out.Zones[s.Country] = zones
		}
		lines = zones.ensure(s.Zone)
	} else {
		var ok bool
		lines, ok = p.out.ShippingLines[s.Country]
		if !ok {
			lines = NewShippingLines()
			p.out.ShippingLines[s.Country] = lines
		}
	}

	entry, created := lines.ensure(s.ShippingLine, s.LineName)
	if created {
		entry.TransitTime = rec.TransitTime
	}
	entry.Bands = append(entry.Bands, rec)
}

func (p *tabParser) addCountry(c string) {
	if p.seen[c] {
		return
	}
	p.seen[c] = true
	p.out.Countries = append(p.out.Countries, c)
}
