package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/planfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/pagination"
)

// Query is one browse request: filter, then sort, then paginate.
type Query struct {
	Filters  FilterSpec
	Sort     enums.CatalogSort
	Page     int
	PageSize int
}

// Page is the visible slice of a browse result.
type Page struct {
	Items      []Record          `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	TotalCount int               `json:"totalCount"`
	Sort       enums.CatalogSort `json:"sort"`
	Empty      bool              `json:"empty"`
}

// Run filters, sorts and paginates records. The requested page is clamped
// into [1, TotalPages] before slicing.
func Run(records []Record, q Query) Page {
	size := pagination.NormalizePageSize(q.PageSize)
	sortKey := q.Sort
	if !sortKey.IsValid() {
		sortKey = enums.CatalogSortNewest
	}

	matched := SortRecords(ApplyFilters(records, q.Filters), sortKey)
	total := pagination.TotalPages(len(matched), size)
	page := pagination.ClampPage(q.Page, total)

	return Page{
		Items:      pagination.Slice(matched, size, page),
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		TotalCount: len(matched),
		Sort:       sortKey,
		Empty:      len(matched) == 0,
	}
}

// ParseQuery builds a Query from request query values.
func ParseQuery(values url.Values, defaultPageSize int) (Query, error) {
	filters, err := ParseFilterSpec(values)
	if err != nil {
		return Query{}, err
	}
	sortKey, err := enums.ParseCatalogSort(values.Get("sort"))
	if err != nil {
		return Query{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort")
	}
	page, err := parsePositive(values.Get("page"), 1, "page")
	if err != nil {
		return Query{}, err
	}
	size, err := parsePositive(values.Get("pageSize"), defaultPageSize, "pageSize")
	if err != nil {
		return Query{}, err
	}
	return Query{
		Filters:  filters,
		Sort:     sortKey,
		Page:     page,
		PageSize: pagination.NormalizePageSize(size),
	}, nil
}

func parsePositive(raw string, fallback int, name string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be a positive integer", name))
	}
	return n, nil
}
