package domain

// Sort order constants
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// PageOptions carries pagination and filter query parameters
type PageOptions struct {
	Page   int    `query:"page"`
	Take   int    `query:"take"`
	Order  string `query:"order"`
	Status string `query:"status"`
	UserID string `query:"userId"`
	Type   string `query:"type"`
}

// Normalize applies defaults for missing pagination values
func (p *PageOptions) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Take < 1 {
		p.Take = 20
	}
	if p.Take > 100 {
		p.Take = 100
	}
	if p.Order != OrderAsc {
		p.Order = OrderDesc
	}
}

// Skip returns the number of documents to skip for the current page
func (p PageOptions) Skip() int {
	return (p.Page - 1) * p.Take
}

// TotalPages computes the page count for a result set
func (p PageOptions) TotalPages(totalCount int64) int {
	if p.Take <= 0 {
		return 0
	}
	pages := totalCount / int64(p.Take)
	if totalCount%int64(p.Take) != 0 {
		pages++
	}
	return int(pages)
}
