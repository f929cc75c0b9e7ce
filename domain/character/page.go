package character

// Page is one response unit of the paginated catalog listing.
type Page struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  []Character `json:"results"`
}

// HasNext reports whether the catalog advertises a further page.
func (p *Page) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}

// SearchParams selects one page of the listing. Nil fields are left out of
// the request entirely.
type SearchParams struct {
	Page   *int
	Search *string
}

// NewSearchParams builds params for page and search term.
func NewSearchParams(page int, search string) SearchParams {
	return SearchParams{Page: &page, Search: &search}
}
