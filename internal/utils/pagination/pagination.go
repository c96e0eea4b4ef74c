// Package pagination holds the page/limit request parameters and the
// response metadata shared by every list endpoint.
package pagination

const (
	// DefaultPage is used when the client omits ?page.
	DefaultPage = 1
	// DefaultLimit is used when the client omits ?limit.
	DefaultLimit = 10
	// MaxLimit caps page size to keep list queries bounded.
	MaxLimit = 100
)

// Request carries the pagination query parameters.
type Request struct {
	Page  int `query:"page"  validate:"omitempty,min=1" example:"1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100" example:"10"`
}

// Normalize applies defaults and the limit cap in place.
func (r *Request) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
}

// Skip returns the number of documents to skip for the current page.
func (r Request) Skip() int {
	return (r.Page - 1) * r.Limit
}

// Meta is the pagination envelope returned alongside list items.
type Meta struct {
	Page  int   `json:"page" example:"1"`
	Limit int   `json:"limit" example:"10"`
	Total int64 `json:"total" example:"42"`
	Pages int64 `json:"pages" example:"5"`
}

// NewMeta computes the envelope for a normalized request.
// Pages is ceil(total/limit); a page beyond the range is not an error,
// the caller simply gets an empty item list with consistent metadata.
func NewMeta(r Request, total int64) Meta {
	pages := total / int64(r.Limit)
	if total%int64(r.Limit) != 0 {
		pages++
	}
	return Meta{
		Page:  r.Page,
		Limit: r.Limit,
		Total: total,
		Pages: pages,
	}
}
