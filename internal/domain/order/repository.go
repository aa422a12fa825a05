package order

import "context"

// SearchRequest describes one page fetch against the portal order search.
type SearchRequest struct {
	Status     string // verbatim record_status value, "" for no status filter
	SearchText string
	OrderDate  string // YYYY-MM-DD, "" for no date filter
	PageSize   int
	Page       int
	Cursor     Cursor // continuation from the previous page, nil on the first
}

// Page is one page of search results. A non-empty Cursor means the result
// was truncated and more pages follow.
type Page struct {
	Items  []Record
	Cursor Cursor
}

// UpdateRequest applies a single field update to one order, keyed by
// email + id as the portal requires.
type UpdateRequest struct {
	Email       string `json:"email"`
	ID          string `json:"id"`
	ModifiedBy  string `json:"modifiedBy"`
	UpdateKey   string `json:"updateKey"`
	UpdateValue string `json:"updateValue"`
}

// Repository is the portal order API seen from the domain. Implemented by
// the medhub platform adapter; tests substitute fakes.
type Repository interface {
	Search(ctx context.Context, req SearchRequest) (Page, error)
	Update(ctx context.Context, req UpdateRequest) error
}
