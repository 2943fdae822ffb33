package pagination

const (
	// DefaultPageSize is the standard page size when a size is not provided.
	DefaultPageSize = 12
	// MaxPageSize caps how many items any page can request.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers or services.
// Page is 1-indexed.
type Params struct {
	Page     int
	PageSize int
}

// NormalizePageSize enforces the default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns ceil(count/size). An empty sequence has zero pages.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// ClampPage keeps page inside [1, totalPages]. With zero pages it returns 1.
func ClampPage(page, totalPages int) int {
	if page < 1 || totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Offset returns the zero-based index of the first item on page.
func Offset(page, size int) int {
	if page < 1 || size <= 0 {
		return 0
	}
	return (page - 1) * size
}

// Slice returns items[(page-1)*size : page*size]. Out-of-range pages yield an
// empty slice rather than panicking. The result shares no backing array with items.
func Slice[T any](items []T, size, page int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
