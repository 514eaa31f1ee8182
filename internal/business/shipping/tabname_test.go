package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTab(t *testing.T) {
	tests := []struct {
		name        string
		tab         string
		wantKey     string
		wantDisplay string
		excluded    bool
	}{
		{name: "us prefix and pricing suffix", tab: "US Standard Battery Pricing", wantKey: "standard-battery", wantDisplay: "Standard Battery"},
		{name: "united states suffix", tab: "Ground Advantage - United States", wantKey: "ground-advantage", wantDisplay: "Ground Advantage"},
		{name: "international prefix", tab: "International Express", wantKey: "express", wantDisplay: "Express"},
		{name: "intl suffix keeps acronym", tab: "DHL eCommerce (Intl)", wantKey: "dhl-ecommerce", wantDisplay: "DHL Ecommerce"},
		{name: "usa prefix", tab: "USA Standard", wantKey: "standard", wantDisplay: "Standard"},
		{name: "dotted u.s. suffix", tab: "Priority (U.S.)", wantKey: "priority", wantDisplay: "Priority"},
		{name: "us inside a word is kept", tab: "USPS Ground", wantKey: "usps-ground", wantDisplay: "USPS Ground"},
		{name: "only location tokens", tab: "US", wantKey: ""},
		{name: "single character remainder", tab: "Intl X", wantKey: ""},
		{name: "rate calculator", tab: "Rate Calculator", excluded: true},
		{name: "rate calculator notes", tab: "Rate Calculator Notes", excluded: true},
		{name: "other services", tab: "Other Services", excluded: true},
		{name: "description", tab: "Description", excluded: true},
		{name: "tab", tab: " Tab ", excluded: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTab(tt.tab)
			assert.Equal(t, tt.excluded, got.Excluded)
			assert.Equal(t, tt.wantKey, got.ShippingLineKey)
			if tt.wantDisplay != "" {
				assert.Equal(t, tt.wantDisplay, got.DisplayName)
			}
		})
	}
}

func TestIsUSTab(t *testing.T) {
	assert.True(t, IsUSTab("United States"))
	assert.True(t, IsUSTab("US Priority"))
	assert.True(t, IsUSTab("Standard - us"))
	assert.True(t, IsUSTab("USA Standard"))
	assert.True(t, IsUSTab("U.S. Priority"))
	assert.True(t, IsUSTab("Priority (U.S.A.)"))
	assert.False(t, IsUSTab("US International"))
	assert.False(t, IsUSTab("USPS Ground"))
	assert.False(t, IsUSTab("Bonus Rates"))
	assert.False(t, IsUSTab("Australia"))
	assert.False(t, IsUSTab("Business Express"))
	assert.False(t, IsUSTab("Express"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Standard Battery", DisplayName("standard battery"))
	assert.Equal(t, "Standard BATTERY", DisplayName("standard BATTERY"))
	assert.Equal(t, "UPS Ground", DisplayName("UPS ground"))
	assert.Equal(t, "A Line", DisplayName("A line"))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "standard-battery", NormalizeKey("Standard Battery"))
	assert.Equal(t, "ground-advantage", NormalizeKey("  Ground \t Advantage "))

	for _, s := range []string{"Standard Battery", "  a  B  c ", "express", "DHL eCommerce", ""} {
		once := NormalizeKey(s)
		assert.Equal(t, once, NormalizeKey(once), s)
	}
}
