// Package location holds the address block shared by tasks and providers
// and the normalization used to match regions and cities.
package location

import "strings"

// Location is embedded into GORM models. The *Key columns are derived
// on save and are what filters compare against.
type Location struct {
	Address   string `gorm:"type:varchar(255)" json:"address,omitempty"`
	City      string `gorm:"type:varchar(100)" json:"city,omitempty"`
	Region    string `gorm:"type:varchar(100)" json:"region,omitempty"`
	District  string `gorm:"type:varchar(100)" json:"district,omitempty"`
	RegionKey string `gorm:"type:varchar(100);index" json:"-"`
	CityKey   string `gorm:"type:varchar(100);index" json:"-"`
}

// Normalize trims the display fields and recomputes the match keys.
func (l *Location) Normalize() {
	l.Address = strings.TrimSpace(l.Address)
	l.City = strings.TrimSpace(l.City)
	l.Region = strings.TrimSpace(l.Region)
	l.District = strings.TrimSpace(l.District)
	l.RegionKey = NormalizeRegion(l.Region)
	l.CityKey = NormalizeKey(l.City)
}

// NormalizeKey lowercases s, trims it and collapses inner whitespace.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeRegion is NormalizeKey plus removal of one trailing "region"
// word, so "Ashanti", "ashanti region" and "ASHANTI  Region" compare equal.
func NormalizeRegion(s string) string {
	key := NormalizeKey(s)
	if trimmed, ok := strings.CutSuffix(key, " region"); ok && trimmed != "" {
		return trimmed
	}
	return key
}
