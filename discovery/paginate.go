package discovery

// DefaultPageSize matches the provider grid on the search page
const DefaultPageSize = 6

// Page is one slice of an ordered result set
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	PageSize   int `json:"page_size"`
	StartIndex int `json:"start_index"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total"`
}

// Empty reports whether the underlying result set has no items at all
func (p Page[T]) Empty() bool {
	return p.TotalItems == 0
}

// TotalPages returns max(1, ceil(total/size)). Non-positive sizes fall back
// to DefaultPageSize.
func TotalPages(total, size int) int {
	size = normalizeSize(size)
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the page of ordered selected by page, clamped to
// [1, TotalPages]. The returned Items share ordered's backing array.
func Paginate[T any](ordered []T, page, size int) Page[T] {
	size = normalizeSize(size)
	total := len(ordered)
	pages := TotalPages(total, size)
	page = clamp(page, 1, pages)

	start := (page - 1) * size
	end := min(start+size, total)
	items := ordered[min(start, total):end:end]
	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Items:      items,
		Number:     page,
		PageSize:   size,
		StartIndex: start,
		TotalPages: pages,
		TotalItems: total,
	}
}

func normalizeSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	return size
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
