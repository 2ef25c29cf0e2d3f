package utils

// PageBounds caps the page size a caller may ask for.
type PageBounds struct {
	Default int
	Max     int
}

// Page is a normalised page request.
type Page struct {
	Number int
	Size   int
}

// PaginationMeta is returned next to every listed page
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
}

// NewPage normalises a requested page. Numbers below 1 become 1, a
// non-positive size takes the default and sizes above Max are capped.
func NewPage(number, size int, bounds PageBounds) Page {
	if number < 1 {
		number = 1
	}
	switch {
	case size <= 0:
		size = bounds.Default
	case bounds.Max > 0 && size > bounds.Max:
		size = bounds.Max
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows to skip
func (p Page) Offset() int {
	if p.Number < 1 || p.Size <= 0 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Meta describes the page against the total row count.
func (p Page) Meta(total int64) PaginationMeta {
	meta := PaginationMeta{Page: p.Number, Limit: p.Size, TotalCount: total}
	if p.Size > 0 && total > 0 {
		size := int64(p.Size)
		meta.TotalPages = int((total + size - 1) / size)
	}
	meta.HasNext = p.Number < meta.TotalPages
	return meta
}
