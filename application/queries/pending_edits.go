package queries

// ListPendingEditsQuery lists the characters that have a local edit
type ListPendingEditsQuery struct{}

// Validate validates the ListPendingEditsQuery
func (ListPendingEditsQuery) Validate() error {
	return nil
}

// PendingEdit is one locally edited character.
type PendingEdit struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ListPendingEditsResult represents the locally edited characters
type ListPendingEditsResult struct {
	Edits []PendingEdit `json:"edits"`
	Count int           `json:"count"`
}
