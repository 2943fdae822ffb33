package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// RawRecord is one undecoded object from a remote catalog payload.
type RawRecord map[string]any

var envelopeKeys = []string{"data", "products", "plans", "items"}

// DecodeRawList extracts the record objects from a catalog payload. It accepts
// a bare array or an envelope whose data/products/plans/items field is an
// array. Any other shape yields an empty list; non-object elements are skipped.
func DecodeRawList(payload []byte) []RawRecord {
	var top any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&top); err != nil {
		return []RawRecord{}
	}

	var list []any
	switch v := top.(type) {
	case []any:
		list = v
	case map[string]any:
		for _, key := range envelopeKeys {
			if arr, ok := v[key].([]any); ok {
				list = arr
				break
			}
		}
	}

	out := make([]RawRecord, 0, len(list))
	for _, elem := range list {
		if obj, ok := elem.(map[string]any); ok {
			out = append(out, RawRecord(obj))
		}
	}
	return out
}

// Normalizer maps raw source records onto Record.
type Normalizer struct {
	PlaceholderImage string
}

// NewNormalizer returns a normalizer using placeholder for missing images.
func NewNormalizer(placeholder string) Normalizer {
	if strings.TrimSpace(placeholder) == "" {
		placeholder = DefaultPlaceholderImage
	}
	return Normalizer{PlaceholderImage: placeholder}
}

// NormalizeAdmin maps a first-party product. index is the record position and
// only used to build an id when the source omitted one.
func (n Normalizer) NormalizeAdmin(raw RawRecord, index int) Record {
	rec := Record{
		Source:       enums.CatalogSourceAdmin,
		RawID:        raw.str("_id", "id", "productId"),
		Name:         raw.str("name", "title"),
		Image:        raw.image("image", "mainImage", "images"),
		Category:     raw.str("category"),
		PlotArea:     raw.num("plotArea", "area"),
		Rooms:        raw.num("rooms", "bedrooms"),
		Bathrooms:    raw.num("bathrooms"),
		Floors:       raw.num("floors"),
		Direction:    raw.str("direction", "facing"),
		PropertyType: raw.str("propertyType", "type"),
		Size:         raw.str("size", "plotSize"),
		CreatedAt:    raw.time("createdAt", "created_at"),
	}
	return n.finish(rec, raw, index)
}

// NormalizeProfessional maps a plan submitted by a professional.
func (n Normalizer) NormalizeProfessional(raw RawRecord, index int) Record {
	rec := Record{
		Source:       enums.CatalogSourceProfessional,
		RawID:        raw.str("_id", "id", "planId"),
		Name:         raw.str("planName", "name", "title"),
		Image:        raw.image("mainImage", "image", "images"),
		Category:     raw.str("category", "planCategory"),
		PlotArea:     raw.num("plotSize", "plotArea", "area"),
		Rooms:        raw.num("bedrooms", "rooms"),
		Bathrooms:    raw.num("bathrooms"),
		Floors:       raw.num("floors"),
		Direction:    raw.str("direction", "facing"),
		PropertyType: raw.str("propertyType", "planType", "type"),
		Size:         raw.str("size", "dimensions"),
		CreatedAt:    raw.time("createdAt", "created_at"),
	}
	return n.finish(rec, raw, index)
}

func (n Normalizer) finish(rec Record, raw RawRecord, index int) Record {
	if rec.RawID == "" {
		rec.RawID = fmt.Sprintf("unknown-%d", index)
	}
	rec.SourceID = BuildSourceID(rec.Source, rec.RawID)

	if rec.Image == "" {
		rec.Image = n.PlaceholderImage
		if rec.Image == "" {
			rec.Image = DefaultPlaceholderImage
		}
	}
	rec.Name = orNA(rec.Name)
	rec.Category = orNA(rec.Category)
	rec.Direction = orNA(rec.Direction)
	rec.PropertyType = orNA(rec.PropertyType)
	rec.Size = orNA(rec.Size)

	price, ok := raw.decimal("price", "basePrice")
	if !ok || price.IsNegative() {
		price = decimal.Zero
	}
	rec.Price = price
	if sale, ok := raw.decimal("salePrice", "sale_price", "discountPrice"); ok {
		rec.SalePrice = &sale
	}
	rec.IsSale = isSale(rec.Price, rec.SalePrice)
	return rec
}

// NormalizeAll maps every raw record of one source.
func (n Normalizer) NormalizeAll(source enums.CatalogSource, raws []RawRecord) []Record {
	out := make([]Record, 0, len(raws))
	for i, raw := range raws {
		if source == enums.CatalogSourceProfessional {
			out = append(out, n.NormalizeProfessional(raw, i))
			continue
		}
		out = append(out, n.NormalizeAdmin(raw, i))
	}
	return out
}

// Merge concatenates the admin and professional records. Either side may be nil.
func Merge(admin, professional []Record) []Record {
	out := make([]Record, 0, len(admin)+len(professional))
	out = append(out, admin...)
	return append(out, professional...)
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	return value
}

func (r RawRecord) str(keys ...string) string {
	for _, key := range keys {
		switch v := r[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func (r RawRecord) num(keys ...string) *float64 {
	for _, key := range keys {
		if f, ok := toFloat(r[key]); ok {
			return &f
		}
	}
	return nil
}

func (r RawRecord) decimal(keys ...string) (decimal.Decimal, bool) {
	for _, key := range keys {
		switch v := r[key].(type) {
		case json.Number:
			if d, err := decimal.NewFromString(v.String()); err == nil {
				return d, true
			}
		case float64:
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return decimal.NewFromFloat(v), true
			}
		case string:
			cleaned := strings.NewReplacer(",", "", "$", "", "₹", "").Replace(strings.TrimSpace(v))
			if d, err := decimal.NewFromString(cleaned); err == nil {
				return d, true
			}
		}
	}
	return decimal.Zero, false
}

func (r RawRecord) image(keys ...string) string {
	for _, key := range keys {
		switch v := r[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case []any:
			for _, elem := range v {
				switch img := elem.(type) {
				case string:
					if s := strings.TrimSpace(img); s != "" {
						return s
					}
				case map[string]any:
					if s := RawRecord(img).str("url", "src"); s != "" {
						return s
					}
				}
			}
		case map[string]any:
			if s := RawRecord(v).str("url", "src"); s != "" {
				return s
			}
		}
	}
	return ""
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func (r RawRecord) time(keys ...string) *time.Time {
	for _, key := range keys {
		switch v := r[key].(type) {
		case string:
			s := strings.TrimSpace(v)
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					t = t.UTC()
					return &t
				}
			}
		case json.Number:
			if ms, err := v.Int64(); err == nil && ms > 0 {
				t := time.UnixMilli(ms).UTC()
				return &t
			}
		}
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
