package domain

import (
	"fmt"
	"strings"
)

// Brand identifies a pet-food product line.
type Brand string

const (
	BrandNutram    Brand = "nutram"
	BrandBritCare  Brand = "britcare"
	BrandCarnilove Brand = "carnilove"
)

// BrandInfo describes a brand as offered by the brand selector.
type BrandInfo struct {
	ID        Brand  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Available bool   `json:"available" yaml:"available"`
}

var brandInfos = []BrandInfo{
	{ID: BrandNutram, Name: "Nutram", Available: true},
	{ID: BrandBritCare, Name: "Brit Care", Available: true},
	{ID: BrandCarnilove, Name: "Carnilove", Available: true},
}

// Brands returns the closed set of brands in selector order.
func Brands() []BrandInfo {
	out := make([]BrandInfo, len(brandInfos))
	copy(out, brandInfos)
	return out
}

// Valid reports whether b belongs to the closed set.
func (b Brand) Valid() bool {
	switch b {
	case BrandNutram, BrandBritCare, BrandCarnilove:
		return true
	}
	return false
}

// Info returns the selector entry for b.
func (b Brand) Info() (BrandInfo, bool) {
	for _, info := range brandInfos {
		if info.ID == b {
			return info, true
		}
	}
	return BrandInfo{}, false
}

// ParseBrand normalises s and checks it against the closed set.
func ParseBrand(s string) (Brand, error) {
	b := Brand(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBrand, s)
	}
	return b, nil
}
