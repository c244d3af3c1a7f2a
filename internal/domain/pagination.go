package domain

// Page size bounds shared by every list operation.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one 1-based page of a list ordered by the repository.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Normalize clamps p into range: pages start at 1 and a missing page size
// becomes DefaultPageSize.
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the number of items before the page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
