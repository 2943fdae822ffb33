package catalog

import (
	"strings"
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

const (
	// DefaultPlaceholderImage is used when a source record has no usable image.
	DefaultPlaceholderImage = "/images/plan-placeholder.jpg"
	// NotAvailable fills specification strings a source did not provide.
	NotAvailable = "N/A"
)

// Record is the normalized shape shared by both catalogs.
type Record struct {
	SourceID     string              `json:"sourceId"`
	Source       enums.CatalogSource `json:"source"`
	RawID        string              `json:"rawId"`
	Name         string              `json:"name"`
	Image        string              `json:"image"`
	Category     string              `json:"category"`
	Price        decimal.Decimal     `json:"price"`
	SalePrice    *decimal.Decimal    `json:"salePrice"`
	IsSale       bool                `json:"isSale"`
	PlotArea     *float64            `json:"plotArea,omitempty"`
	Rooms        *float64            `json:"rooms,omitempty"`
	Bathrooms    *float64            `json:"bathrooms,omitempty"`
	Floors       *float64            `json:"floors,omitempty"`
	Direction    string              `json:"direction"`
	PropertyType string              `json:"propertyType"`
	Size         string              `json:"size"`
	CreatedAt    *time.Time          `json:"createdAt"`
}

// EffectivePrice is the sale price when the record is on sale, else the list price.
func (r Record) EffectivePrice() decimal.Decimal {
	if r.IsSale && r.SalePrice != nil {
		return *r.SalePrice
	}
	return r.Price
}

// createdBefore reports whether r belongs ahead of other in newest-first
// order. Records without a timestamp sink below every dated record.
func (r Record) createdBefore(other Record) bool {
	switch {
	case r.CreatedAt == nil:
		return false
	case other.CreatedAt == nil:
		return true
	}
	return r.CreatedAt.After(*other.CreatedAt)
}

func isSale(price decimal.Decimal, sale *decimal.Decimal) bool {
	return sale != nil && sale.IsPositive() && sale.LessThan(price)
}

// BuildSourceID joins the origin tag and the source-local id.
func BuildSourceID(source enums.CatalogSource, rawID string) string {
	return string(source) + "-" + rawID
}

// SplitSourceID reverses BuildSourceID.
func SplitSourceID(sourceID string) (enums.CatalogSource, string, bool) {
	prefix, rawID, ok := strings.Cut(strings.TrimSpace(sourceID), "-")
	if !ok || rawID == "" {
		return "", "", false
	}
	source, err := enums.ParseCatalogSource(prefix)
	if err != nil {
		return "", "", false
	}
	return source, rawID, true
}

type attributeKind int

const (
	attrString attributeKind = iota
	attrNumber
)

// filterAttributes lists every attribute a FilterSpec may constrain.
var filterAttributes = map[string]attributeKind{
	"source":       attrString,
	"category":     attrString,
	"direction":    attrString,
	"propertyType": attrString,
	"size":         attrString,
	"plotArea":     attrNumber,
	"rooms":        attrNumber,
	"bathrooms":    attrNumber,
	"floors":       attrNumber,
}

// IsFilterAttribute reports whether name can be used in a FilterSpec.
func IsFilterAttribute(name string) bool {
	_, ok := filterAttributes[name]
	return ok
}

func (r Record) stringAttr(name string) (string, bool) {
	switch name {
	case "source":
		return string(r.Source), true
	case "category":
		return r.Category, true
	case "direction":
		return r.Direction, true
	case "propertyType":
		return r.PropertyType, true
	case "size":
		return r.Size, true
	}
	return "", false
}

func (r Record) numberAttr(name string) (float64, bool) {
	var v *float64
	switch name {
	case "plotArea":
		v = r.PlotArea
	case "rooms":
		v = r.Rooms
	case "bathrooms":
		v = r.Bathrooms
	case "floors":
		v = r.Floors
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}
