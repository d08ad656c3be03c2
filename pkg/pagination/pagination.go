package pagination

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 10
	// MaxPerPage caps how many rows any listing query can request.
	MaxPerPage = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Page wraps one page of results together with the counts the UI needs to
// render page links.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// Normalize enforces the configured default and maximum page sizes.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// NewPage assembles a Page from the query results and the total row count.
func NewPage[T any](items []T, total int64, params Params) Page[T] {
	n := params.Normalize()
	totalPages := int(total) / n.PerPage
	if int(total)%n.PerPage != 0 {
		totalPages++
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       n.Page,
		PerPage:    n.PerPage,
		TotalPages: totalPages,
	}
}
