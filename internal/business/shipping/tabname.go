package shipping

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const locationTokens = `(?:united\s+states(?:\s+of\s+america)?|u\.?s\.?a\.?|u\.?s\.?|international|intl)`

var (
	leadingLocationRe  = regexp.MustCompile(`(?i)^\s*\(?` + locationTokens + `\)?(?:\s*[-–:|/]\s*|\s+|$)`)
	trailingLocationRe = regexp.MustCompile(`(?i)(?:^|\s*[-–:|/]\s*|\s+)\(?` + locationTokens + `\)?\s*$`)
	trailingPricingRe  = regexp.MustCompile(`(?i)(?:^|\s*[-–:|/]\s*|\s+)pricing\s*$`)
	usTokenRe          = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])u\.?s\.?(?:a\.?)?(?:[^a-z0-9]|$)`)
	whitespaceRe       = regexp.MustCompile(`\s+`)
)

// TabClass tab 名识别结果
type TabClass struct {
	Excluded        bool   // 不含费率数据的 tab
	ShippingLineKey string // 为空表示无法从 tab 名得出线路
	DisplayName     string
}

// ClassifyTab 从 tab 名识别物流线路
// 去掉首尾的地区标记（united states / us / usa / international / intl）以及末尾的 pricing
func ClassifyTab(tabName string) TabClass {
	if IsExcludedTab(tabName) {
		return TabClass{Excluded: true}
	}

	name := stripLocationTokens(tabName)
	if utf8.RuneCountInString(name) < 2 {
		return TabClass{}
	}

	display := DisplayName(name)
	return TabClass{
		ShippingLineKey: NormalizeKey(display),
		DisplayName:     display,
	}
}

// IsExcludedTab 说明类/计算器类 tab 不参与解析
func IsExcludedTab(tabName string) bool {
	lower := strings.ToLower(strings.TrimSpace(tabName))
	if strings.Contains(lower, "rate calculator") || strings.Contains(lower, "other services") {
		return true
	}
	return lower == "tab" || lower == "description"
}

// IsUSTab 美国 tab：含 "united states"，或含独立的 us / usa / u.s. / u.s.a. 且不含 "international"
func IsUSTab(tabName string) bool {
	lower := strings.ToLower(tabName)
	if strings.Contains(lower, "united states") {
		return true
	}
	return usTokenRe.MatchString(lower) && !strings.Contains(lower, "international")
}

// stripLocationTokens 反复剥离直到不再变化
func stripLocationTokens(name string) string {
	s := strings.TrimSpace(name)
	for {
		prev := s
		s = trailingPricingRe.ReplaceAllString(s, "")
		s = leadingLocationRe.ReplaceAllString(s, "")
		s = trailingLocationRe.ReplaceAllString(s, "")
		s = strings.Trim(s, " \t-–:|/()")
		if s == prev {
			return s
		}
	}
}

// DisplayName 按单词首字母大写，保留长度大于 1 的全大写缩写
func DisplayName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len([]rune(w)) > 1 && isAllUpper(w) {
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// NormalizeKey 线路 key：小写，空白折叠为单个连字符
func NormalizeKey(s string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
