package catalog

import (
	"sort"

	"github.com/angelmondragon/planfinderz-storefront/pkg/enums"
)

// SortRecords returns a reordered copy. The sort is stable so records with
// equal keys keep their input order. Unknown keys sort newest first.
func SortRecords(records []Record, key enums.CatalogSort) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	switch key {
	case enums.CatalogSortPriceLow:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice().LessThan(out[j].EffectivePrice())
		})
	case enums.CatalogSortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice().GreaterThan(out[j].EffectivePrice())
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].createdBefore(out[j])
		})
	}
	return out
}
