package repository

// Page bounds a list query. Number is 1-based; out-of-range input is clamped
// rather than rejected so callers can pass request values straight through.
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) offset() int { return (p.Number - 1) * p.Size }

// PagedResult carries one page plus the totals clients need for paging UI.
type PagedResult[T any] struct {
	Items      []T
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

func newPagedResult[T any](items []T, p Page, total int64) PagedResult[T] {
	pages := int(total) / p.Size
	if int(total)%p.Size != 0 {
		pages++
	}
	return PagedResult[T]{Items: items, Page: p.Number, Size: p.Size, TotalItems: total, TotalPages: pages}
}
