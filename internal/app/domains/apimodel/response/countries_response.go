package response

import "oip/dprate/internal/business/shipping"

// CountriesResponse 国家列表（DTO）
type CountriesResponse struct {
	Countries  []string                        `json:"countries"`
	PerCountry map[string]shipping.CountryInfo `json:"per_country"`
}

// RefreshResponse 缓存刷新结果（DTO）
type RefreshResponse struct {
	Countries int `json:"countries"`
	Tabs      int `json:"tabs"`
}

// FromCountryListing 业务结果 → DTO
func FromCountryListing(l *shipping.CountryListing) *CountriesResponse {
	return &CountriesResponse{
		Countries:  l.Countries,
		PerCountry: l.PerCountry,
	}
}
