package repository

// ListQuery carries pagination, sorting and filter parameters for listings
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

// Limit returns the page size, clamped to a sane range
func (q *ListQuery) Limit() int {
	if q.PerPage < 1 {
		return 20
	}
	if q.PerPage > 200 {
		return 200
	}
	return q.PerPage
}
