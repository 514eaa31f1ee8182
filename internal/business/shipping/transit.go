package shipping

import (
	"regexp"
	"strconv"
	"strings"
)

// DeliveryPlaceholder 无可用时效时的占位值
const DeliveryPlaceholder = "N/A"

var (
	digitsOnlyRe   = regexp.MustCompile(`^\d+$`)
	numericRangeRe = regexp.MustCompile(`^\d+(?:\.\d+)?(?:\s*[-–~]\s*\d+(?:\.\d+)?)?$`)
)

// isCorruptedTransit 表格日期序列号泄漏：5 位以上纯数字，或数值大于 1000
func isCorruptedTransit(s string) bool {
	s = strings.TrimSpace(s)
	if digitsOnlyRe.MatchString(s) && len(s) >= 5 {
		return true
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v > 1000 {
		return true
	}
	return false
}

// sanitizeTransit 丢弃损坏的时效值
func sanitizeTransit(t *string) (string, bool) {
	if t == nil {
		return "", false
	}
	s := strings.TrimSpace(*t)
	if s == "" || isCorruptedTransit(s) {
		return "", false
	}
	return s, true
}

// normalizeDeliveryTime 展示用时效：纯数字（含区间）补 " days"，已含 day 的原样返回
func normalizeDeliveryTime(t *string) string {
	s, ok := sanitizeTransit(t)
	if !ok {
		return ""
	}
	if strings.Contains(strings.ToLower(s), "day") {
		return s
	}
	if numericRangeRe.MatchString(s) {
		return s + " days"
	}
	return s
}
