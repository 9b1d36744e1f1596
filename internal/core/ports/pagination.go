package ports

// DefaultPageSize is the fixed page size shared by every list operation.
const DefaultPageSize = 10

// Pagination is the metadata attached to every list response. NextPage is an
// approximate has-more heuristic: it is present exactly when the returned
// page was full, which does not guarantee a further page exists. Kept as-is
// for compatibility with the existing API contract.
type Pagination struct {
	Page         int  `json:"page"`
	Limit        int  `json:"limit"`
	NextPage     *int `json:"nextPage,omitempty"`
	PreviousPage *int `json:"previousPage,omitempty"`
}

// NormalizePage returns page, defaulting to 1 when absent or non-positive.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// PaginationFor computes the metadata for a page that returned count items.
func PaginationFor(page, limit, count int) Pagination {
	p := Pagination{Page: page, Limit: limit}
	if count == limit {
		next := page + 1
		p.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		p.PreviousPage = &prev
	}
	return p
}
