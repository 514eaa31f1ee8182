package shipping

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"oip/dprate/pkg/errorutil"
)

const (
	// MaxRequestWeight 单次请求重量上限（与单位无关）
	MaxRequestWeight = 9999.99
	MinWeightLb      = 0.25
	MinWeightKg      = 0.11
)

// Validate 校验请求，并将 WeightUnit 规范化（空值默认 kg）
func (r *CalculateRequest) Validate() error {
	if strings.TrimSpace(r.Country) == "" {
		return errorutil.MissingField("country")
	}
	if strings.TrimSpace(r.ShippingLine) == "" {
		return errorutil.MissingField("shipping_line")
	}
	if r.WeightMissing {
		return errorutil.MissingField("weight")
	}

	unit, ok := ParseWeightUnit(string(r.WeightUnit))
	if !ok {
		return errorutil.InvalidWeight("weight_unit must be kg or lb, got %q", r.WeightUnit)
	}
	r.WeightUnit = unit

	w := r.Weight
	switch {
	case math.IsNaN(w) || math.IsInf(w, 0):
		return errorutil.InvalidWeight("weight must be a valid number")
	case w <= 0:
		return errorutil.InvalidWeight("weight must be greater than 0")
	case w > MaxRequestWeight:
		return errorutil.InvalidWeight("weight must not exceed %.2f %s", MaxRequestWeight, unit)
	}

	minWeight := MinWeightKg
	if unit == UnitLb {
		minWeight = MinWeightLb
	}
	if w < minWeight {
		return errorutil.InvalidWeight("weight must be at least %.2f %s", minWeight, unit).
			WithDetail("min_weight", minWeight).
			WithDetail("unit", string(unit))
	}
	return nil
}

// ParseWeightInput 解析外部传入的 weight（JSON 数字、字符串或缺省）
// 返回 missing=true 表示未提供
func ParseWeightInput(v interface{}) (weight float64, missing bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, true, nil
	case float64:
		return x, false, nil
	case float32:
		return float64(x), false, nil
	case int:
		return float64(x), false, nil
	case int64:
		return float64(x), false, nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false, errorutil.InvalidWeight("weight must be a number, got %q", x.String())
		}
		return f, false, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, errorutil.InvalidWeight("weight must be a number, got %q", x)
		}
		return f, false, nil
	default:
		return 0, false, errorutil.InvalidWeight("weight must be a number")
	}
}
