package shipping

import (
	"math"
	"strings"
)

// WeightUnit 重量单位
type WeightUnit string

const (
	UnitKg WeightUnit = "kg"
	UnitLb WeightUnit = "lb"
)

// KgPerLb 1 lb = 0.453592 kg（精确值）
const KgPerLb = 0.453592

// ParseWeightUnit 解析重量单位，空值默认 kg
func ParseWeightUnit(s string) (WeightUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kg", "kgs", "kilogram", "kilograms":
		return UnitKg, true
	case "lb", "lbs", "pound", "pounds":
		return UnitLb, true
	default:
		return "", false
	}
}

// Other 返回另一种单位
func (u WeightUnit) Other() WeightUnit {
	if u == UnitLb {
		return UnitKg
	}
	return UnitLb
}

// ConvertWeight 单位换算
func ConvertWeight(w float64, from, to WeightUnit) float64 {
	if from == to {
		return w
	}
	if from == UnitLb {
		return w * KgPerLb
	}
	return w / KgPerLb
}

// ToKg 换算为 kg
func ToKg(w float64, from WeightUnit) float64 {
	return ConvertWeight(w, from, UnitKg)
}

// ToLb 换算为 lb
func ToLb(w float64, from WeightUnit) float64 {
	return ConvertWeight(w, from, UnitLb)
}

// roundTo2Decimals 四舍五入到两位小数
func roundTo2Decimals(f float64) float64 {
	return math.Round(f*100) / 100
}
