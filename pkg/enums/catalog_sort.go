package enums

import (
	"fmt"
	"strings"
)

// CatalogSort names the orderings offered on browse pages.
type CatalogSort string

const (
	CatalogSortNewest    CatalogSort = "newest"
	CatalogSortPriceLow  CatalogSort = "price-low"
	CatalogSortPriceHigh CatalogSort = "price-high"
)

var validCatalogSorts = []CatalogSort{
	CatalogSortNewest,
	CatalogSortPriceLow,
	CatalogSortPriceHigh,
}

// String implements fmt.Stringer.
func (c CatalogSort) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CatalogSort.
func (c CatalogSort) IsValid() bool {
	for _, candidate := range validCatalogSorts {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCatalogSort converts raw input into a CatalogSort. Empty input selects newest.
func ParseCatalogSort(value string) (CatalogSort, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return CatalogSortNewest, nil
	}
	for _, candidate := range validCatalogSorts {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog sort %q", value)
}
