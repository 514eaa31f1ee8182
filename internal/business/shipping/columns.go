package shipping

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// columnIndex 表头列定位，-1 表示该列不存在
type columnIndex struct {
	Country      int
	Zone         int
	ShippingLine int
	Transit      int
	WeightLb     int
	WeightKg     int
	FreightLb    int
	FreightKg    int
	Injection    int
}

type headerMatcher func(h string) bool

func containsAny(subs ...string) headerMatcher {
	return func(h string) bool {
		for _, s := range subs {
			if strings.Contains(h, s) {
				return true
			}
		}
		return false
	}
}

func containsAll(subs ...string) headerMatcher {
	return func(h string) bool {
		for _, s := range subs {
			if !strings.Contains(h, s) {
				return false
			}
		}
		return true
	}
}

// detectColumns 表头按子串（不区分大小写）定位各列，每个角色取第一个命中列
func detectColumns(header []Cell) columnIndex {
	names := make([]string, len(header))
	for i, c := range header {
		names[i] = strings.ToLower(cellText(c))
	}

	find := func(m headerMatcher) int {
		for i, h := range names {
			if h != "" && m(h) {
				return i
			}
		}
		return -1
	}

	return columnIndex{
		Country:      find(containsAny("countr", "destination")),
		Zone:         find(containsAny("zone")),
		ShippingLine: find(containsAny("shipping line", "shipping channel", "service", "method")),
		Transit:      find(containsAny("transit", "delivery")),
		WeightLb:     find(containsAll("weight", "lb")),
		WeightKg:     find(containsAll("weight", "kg")),
		FreightLb:    find(containsAll("freight", "lb")),
		FreightKg:    find(containsAll("freight", "kg")),
		Injection:    find(containsAny("injection", "fulfillment", "order")),
	}
}

// cellAt 越界或列不存在时返回空串
func cellAt(row []Cell, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cellText(row[idx])
}

// cellText 单元格转字符串
func cellText(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

var bandRe = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?|\.\d+)\s*-\s*(\d+(?:\.\d+)?|\.\d+)\s*$`)

// parseBand 解析 "<min>-<max>" 格式的重量区间
func parseBand(s string, unit WeightUnit) *WeightBand {
	m := bandRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	low, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	high, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}
	return &WeightBand{Low: low, High: high, Unit: unit}
}

// parseMoney 去掉数字和小数点以外的字符后解析，失败返回 nil
func parseMoney(s string) *float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
