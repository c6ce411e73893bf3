package query

import "strconv"

const (
	// DefaultPageSize applies when no limit parameter is given.
	DefaultPageSize = 10
	// MaxPageSize caps any requested limit.
	MaxPageSize = 100
)

// Page is a normalized pagination window.
type Page struct {
	Number int
	Limit  int
}

// ParsePage normalizes raw page/limit query parameters: page floors at 1,
// limit defaults to DefaultPageSize and caps at MaxPageSize. Garbage
// input falls back to the defaults.
func ParsePage(pageStr, limitStr string) Page {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Number: page, Limit: limit}
}

// Skip returns the number of documents to skip for this window.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

// Limit64 returns the window size as int64 for driver options.
func (p Page) Limit64() int64 {
	return int64(p.Limit)
}

// TotalPages returns ceil(total/limit) for the given window.
func (p Page) TotalPages(total int64) int64 {
	if total == 0 {
		return 0
	}
	limit := int64(p.Limit)
	return (total + limit - 1) / limit
}

// Pagination is the envelope fragment reported alongside paged results.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
}

// PageInfo builds the reported pagination for a total row count.
func (p Page) PageInfo(total int64) Pagination {
	return Pagination{Total: total, CurrentPage: p.Number, TotalPages: p.TotalPages(total)}
}
