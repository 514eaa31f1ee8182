package shipping

import (
	"sort"
	"strings"
)

// preferredCountries 固定排在最前面的国家及其常见别名
var preferredCountries = []struct {
	Name    string
	Aliases []string
}{
	{"United States", []string{"united states", "united states of america", "us", "usa", "u.s.", "u.s.a."}},
	{"Canada", []string{"canada", "ca"}},
	{"United Kingdom", []string{"united kingdom", "uk", "gb", "great britain", "england"}},
	{"Australia", []string{"australia", "au", "aus"}},
	{"Germany", []string{"germany", "de", "deutschland"}},
}

// preferredRank 返回优先级序号，不在列表中返回 -1
func preferredRank(country string) int {
	lower := strings.ToLower(strings.TrimSpace(country))
	for i, p := range preferredCountries {
		for _, a := range p.Aliases {
			if lower == a {
				return i
			}
		}
	}
	return -1
}

// sameCountry 名称相同（不区分大小写）或属于同一组别名
func sameCountry(a, b string) bool {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return true
	}
	ra := preferredRank(a)
	return ra >= 0 && ra == preferredRank(b)
}

// sortCountries 优先国家按固定顺序，其余按字母序
func sortCountries(countries []string) {
	sort.SliceStable(countries, func(i, j int) bool {
		ri, rj := preferredRank(countries[i]), preferredRank(countries[j])
		switch {
		case ri >= 0 && rj >= 0:
			return ri < rj
		case ri >= 0:
			return true
		case rj >= 0:
			return false
		}
		li, lj := strings.ToLower(countries[i]), strings.ToLower(countries[j])
		if li != lj {
			return li < lj
		}
		return countries[i] < countries[j]
	})
}
