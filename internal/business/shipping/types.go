package shipping

// Cell 单元格取值：string / 数字 / nil
type Cell = interface{}

// WeightBand 重量区间 [Low, High)
type WeightBand struct {
	Low  float64    `json:"low"`
	High float64    `json:"high"`
	Unit WeightUnit `json:"unit"`
}

// Contains 判断重量是否落在半开区间内
func (b *WeightBand) Contains(w float64) bool {
	return w >= b.Low && w < b.High
}

// PricingRecord 单行费率记录
// lb / kg 两列分别解析，不做换算，源表四舍五入可能导致两者略有出入
type PricingRecord struct {
	WeightBandLb *WeightBand `json:"weight_band_lb,omitempty"`
	WeightBandKg *WeightBand `json:"weight_band_kg,omitempty"`
	FreightPerLb *float64    `json:"freight_per_lb,omitempty"`
	FreightPerKg *float64    `json:"freight_per_kg,omitempty"`
	InjectionFee float64     `json:"injection_fee"`
	TransitTime  *string     `json:"transit_time,omitempty"`
}

// Band 按单位取区间
func (r *PricingRecord) Band(unit WeightUnit) *WeightBand {
	if unit == UnitLb {
		return r.WeightBandLb
	}
	return r.WeightBandKg
}

// Freight 按单位取运费单价
func (r *PricingRecord) Freight(unit WeightUnit) *float64 {
	if unit == UnitLb {
		return r.FreightPerLb
	}
	return r.FreightPerKg
}

// ServiceEntry 某国家（/分区）下一条物流线路的全部费率
type ServiceEntry struct {
	Name        string          `json:"name"`
	Bands       []PricingRecord `json:"bands"`
	TransitTime *string         `json:"transit_time,omitempty"` // band 缺失时效时的兜底
}

// ShippingLines 线路 key → ServiceEntry，Order 记录首次出现顺序
type ShippingLines struct {
	Entries map[string]*ServiceEntry `json:"entries"`
	Order   []string                 `json:"order"`
}

// NewShippingLines 创建空线路表
func NewShippingLines() *ShippingLines {
	return &ShippingLines{Entries: make(map[string]*ServiceEntry)}
}

// Get 按 key 获取
func (l *ShippingLines) Get(key string) (*ServiceEntry, bool) {
	if l == nil {
		return nil, false
	}
	e, ok := l.Entries[key]
	return e, ok
}

// Len 线路数量
func (l *ShippingLines) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Order)
}

// ensure 获取或创建线路，返回是否新建
func (l *ShippingLines) ensure(key, name string) (*ServiceEntry, bool) {
	if e, ok := l.Entries[key]; ok {
		return e, false
	}
	e := &ServiceEntry{Name: name}
	l.Entries[key] = e
	l.Order = append(l.Order, key)
	return e, true
}

// CountryZones 分区名 → 线路表，Order 记录首次出现顺序
type CountryZones struct {
	Zones map[string]*ShippingLines `json:"zones"`
	Order []string                  `json:"order"`
}

// NewCountryZones 创建空分区表
func NewCountryZones() *CountryZones {
	return &CountryZones{Zones: make(map[string]*ShippingLines)}
}

// ensure 获取或创建分区
func (z *CountryZones) ensure(zone string) *ShippingLines {
	if l, ok := z.Zones[zone]; ok {
		return l
	}
	l := NewShippingLines()
	z.Zones[zone] = l
	z.Order = append(z.Order, zone)
	return l
}

// lineCount 所有分区下的线路总数
func (z *CountryZones) lineCount() int {
	if z == nil {
		return 0
	}
	n := 0
	for _, l := range z.Zones {
		n += l.Len()
	}
	return n
}

// LineMap country → 线路表（无分区）
type LineMap map[string]*ShippingLines

// ZoneMap country → 分区 → 线路表
type ZoneMap map[string]*CountryZones

// ParsedTab 单个 tab 的解析结果
type ParsedTab struct {
	Countries     []string `json:"countries"`
	Zones         ZoneMap  `json:"zones"`
	ShippingLines LineMap  `json:"shipping_lines"`
}

// NewParsedTab 创建空解析结果
func NewParsedTab() *ParsedTab {
	return &ParsedTab{
		Zones:         make(ZoneMap),
		ShippingLines: make(LineMap),
	}
}

// TabResult 合并输入：tab 名 + 解析结果（拉取失败时 Parsed 为 nil）
type TabResult struct {
	TabName string
	Parsed  *ParsedTab
}

// ShippingLineInfo 线路展示信息
type ShippingLineInfo struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	MaxWeightKg  float64 `json:"max_weight_kg"`
	MaxWeightLb  float64 `json:"max_weight_lb"`
	DeliveryTime string  `json:"delivery_time,omitempty"`
}

// CountryInfo 国家展示信息
type CountryInfo struct {
	HasZones               bool               `json:"has_zones"`
	ZoneNames              []string           `json:"zone_names"`
	AvailableShippingLines []ShippingLineInfo `json:"available_shipping_lines"`
}

// CountryListing 国家列表查询结果
type CountryListing struct {
	Countries  []string               `json:"countries"`
	PerCountry map[string]CountryInfo `json:"per_country"`
}

// Aggregate 合并后的全量费率数据（每个缓存周期构建一次）
type Aggregate struct {
	Countries     []string               `json:"countries"`
	Zones         ZoneMap                `json:"zones"`
	ShippingLines LineMap                `json:"shipping_lines"`
	PerCountry    map[string]CountryInfo `json:"per_country"`
	TabCount      int                    `json:"tab_count"`
}

// Listing 生成国家列表
func (a *Aggregate) Listing() *CountryListing {
	countries := make([]string, len(a.Countries))
	copy(countries, a.Countries)
	per := make(map[string]CountryInfo, len(a.PerCountry))
	for k, v := range a.PerCountry {
		per[k] = v
	}
	return &CountryListing{Countries: countries, PerCountry: per}
}

// CalculateRequest 运费计算请求
type CalculateRequest struct {
	Country      string     `json:"country"`
	ShippingLine string     `json:"shipping_line"`
	Zone         string     `json:"zone,omitempty"`
	Weight       float64    `json:"weight"`
	WeightUnit   WeightUnit `json:"weight_unit"`

	// WeightMissing 调用方未提供 weight
	WeightMissing bool `json:"-"`
}

// CalculationResult 运费计算结果
type CalculationResult struct {
	Country        string      `json:"country"`
	Zone           string      `json:"zone,omitempty"`
	ShippingLine   string      `json:"shipping_line"`
	ShippingCost   float64     `json:"shipping_cost"`
	FulfillmentFee float64     `json:"fulfillment_fee"`
	TotalCost      float64     `json:"total_cost"`
	DeliveryDays   string      `json:"delivery_days"`
	WeightUsed     float64     `json:"weight_used"`
	WeightUnit     WeightUnit  `json:"weight_unit"`
	FreightPerUnit float64     `json:"freight_per_unit"`
	InjectionFee   float64     `json:"injection_fee"`
	WeightKg       float64     `json:"weight_kg"`
	WeightLb       float64     `json:"weight_lb"`
	MatchedBand    *WeightBand `json:"matched_band,omitempty"`
}
