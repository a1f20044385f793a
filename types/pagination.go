package types

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery holds validated pagination parameters.
type PageQuery struct {
	Page     int `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize,default=20" binding:"omitempty,min=1,max=100"`
}

// Normalize clamps the query into the supported range.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Offset returns the row offset for the current page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Page is one page of results plus the listing's total size.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
}

// NewPage wraps items in the pagination envelope. A nil slice becomes an
// empty one so JSON renders [] instead of null.
func NewPage[T any](items []T, total int64, q PageQuery) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		PageNumber: q.Page,
		PageSize:   q.PageSize,
	}
}

// EmptyPage is the zero-result page for a query.
func EmptyPage[T any](q PageQuery) Page[T] {
	return NewPage[T](nil, 0, q)
}

// SlicePage paginates an already-materialized list.
func SlicePage[T any](items []T, q PageQuery) Page[T] {
	total := int64(len(items))
	start := q.Offset()
	if start >= len(items) {
		return NewPage[T](nil, total, q)
	}
	end := start + q.PageSize
	if end > len(items) {
		end = len(items)
	}
	return NewPage[T](items[start:end], total, q)
}
