package catalog

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Budget bounds the effective price. Nil bounds are open; both ends are inclusive.
type Budget struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

func (b Budget) active() bool {
	return b.Min != nil || b.Max != nil
}

func (b Budget) contains(price decimal.Decimal) bool {
	if b.Min != nil && price.LessThan(*b.Min) {
		return false
	}
	if b.Max != nil && price.GreaterThan(*b.Max) {
		return false
	}
	return true
}

// FilterSpec holds the active constraints of a browse request. Attribute
// values are matched exactly for string attributes. Numeric attributes also
// accept range buckets: "500-1000" selects [500, 1000) and "2000+" selects
// values from 2000 upward. Empty values and "all" are inactive.
type FilterSpec struct {
	Attributes map[string]string `json:"attributes,omitempty"`
	Budget     Budget            `json:"budget"`
}

// IsEmpty reports whether no constraint is active.
func (f FilterSpec) IsEmpty() bool {
	for _, v := range f.Attributes {
		if !inactiveValue(v) {
			return false
		}
	}
	return !f.Budget.active()
}

// Validate rejects unknown attributes, malformed numeric values and inverted budgets.
func (f FilterSpec) Validate() error {
	for name, value := range f.Attributes {
		kind, ok := filterAttributes[name]
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown filter attribute %q", name))
		}
		if kind == attrNumber && !inactiveValue(value) {
			if _, err := parseNumericMatcher(value); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid value for %s", name))
			}
		}
	}
	if f.Budget.Min != nil && f.Budget.Max != nil && f.Budget.Min.GreaterThan(*f.Budget.Max) {
		return pkgerrors.New(pkgerrors.CodeValidation, "budgetMin must not exceed budgetMax")
	}
	return nil
}

// AllValues is the attribute value that selects every record.
const AllValues = "all"

func inactiveValue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AllValues)
}

type predicate func(Record) bool

// ApplyFilters keeps the records satisfying every active constraint, in input
// order. Unknown attributes and malformed values are ignored here; callers
// reject them up front with Validate.
func ApplyFilters(records []Record, spec FilterSpec) []Record {
	preds := compile(spec)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if matchesAll(rec, preds) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesAll(rec Record, preds []predicate) bool {
	for _, p := range preds {
		if !p(rec) {
			return false
		}
	}
	return true
}

func compile(spec FilterSpec) []predicate {
	names := make([]string, 0, len(spec.Attributes))
	for name := range spec.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	preds := make([]predicate, 0, len(names)+1)
	for _, name := range names {
		value := strings.TrimSpace(spec.Attributes[name])
		if inactiveValue(value) {
			continue
		}
		kind, ok := filterAttributes[name]
		if !ok {
			continue
		}
		attr := name
		switch kind {
		case attrString:
			preds = append(preds, func(r Record) bool {
				got, _ := r.stringAttr(attr)
				return strings.EqualFold(got, value)
			})
		case attrNumber:
			m, err := parseNumericMatcher(value)
			if err != nil {
				continue
			}
			preds = append(preds, func(r Record) bool {
				got, ok := r.numberAttr(attr)
				return ok && m.matches(got)
			})
		}
	}

	if spec.Budget.active() {
		budget := spec.Budget
		preds = append(preds, func(r Record) bool {
			return budget.contains(r.EffectivePrice())
		})
	}
	return preds
}

// numericMatcher is either an exact value or a half-open range [min, max).
type numericMatcher struct {
	exact *float64
	min   float64
	max   float64
}

func (m numericMatcher) matches(v float64) bool {
	if m.exact != nil {
		return v == *m.exact
	}
	return v >= m.min && v < m.max
}

func parseNumericMatcher(raw string) (numericMatcher, error) {
	value := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return numericMatcher{exact: &f}, nil
	}
	if lower, ok := strings.CutSuffix(value, "+"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(lower), 64)
		if err != nil {
			return numericMatcher{}, fmt.Errorf("invalid bucket %q", raw)
		}
		return numericMatcher{min: f, max: math.Inf(1)}, nil
	}
	lo, hi, ok := strings.Cut(value, "-")
	if !ok {
		return numericMatcher{}, fmt.Errorf("invalid bucket %q", raw)
	}
	minV, errLo := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	maxV, errHi := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if errLo != nil || errHi != nil || maxV <= minV {
		return numericMatcher{}, fmt.Errorf("invalid bucket %q", raw)
	}
	return numericMatcher{min: minV, max: maxV}, nil
}

// reservedParams are query parameters that are not filter attributes.
var reservedParams = map[string]struct{}{
	"sort":      {},
	"page":      {},
	"pageSize":  {},
	"budgetMin": {},
	"budgetMax": {},
}

// ParseFilterSpec reads filter attributes and the budget from query values.
func ParseFilterSpec(values url.Values) (FilterSpec, error) {
	spec := FilterSpec{Attributes: map[string]string{}}
	for key, vals := range values {
		if _, reserved := reservedParams[key]; reserved {
			continue
		}
		if len(vals) == 0 {
			continue
		}
		spec.Attributes[key] = strings.TrimSpace(vals[0])
	}

	var err error
	if spec.Budget.Min, err = parseBound(values.Get("budgetMin"), "budgetMin"); err != nil {
		return FilterSpec{}, err
	}
	if spec.Budget.Max, err = parseBound(values.Get("budgetMax"), "budgetMax"); err != nil {
		return FilterSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return FilterSpec{}, err
	}
	return spec, nil
}

func parseBound(raw, name string) (*decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("%s must be a number", name))
	}
	return &d, nil
}
