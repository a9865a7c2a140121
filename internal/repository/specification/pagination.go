package specification

import "strconv"

// Page describes one slice of an ordered result set. Number is 1-based and
// always within [1, TotalPages]; an empty set still has one (empty) page.
type Page struct {
	Number      int   `json:"number"`
	Size        int   `json:"size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// Paginate clamps requested into the valid page range instead of failing.
func Paginate(total int64, size, requested int) Page {
	if size < 1 {
		size = 1
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:      number,
		Size:        size,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasPrevious: number > 1,
		HasNext:     number < totalPages,
	}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Spec() Pagination {
	return Pagination{Limit: p.Size, Offset: p.Offset()}
}

// ParsePageNumber reads a raw ?page= value. Anything that is not a positive
// integer means the first page; the "last" keyword means the last one.
func ParsePageNumber(raw string) int {
	if raw == "last" {
		return LastPage
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// LastPage is larger than any real page count, so Paginate clamps it to the end.
const LastPage = int(^uint(0) >> 1)
