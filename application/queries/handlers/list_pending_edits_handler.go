package handlers

import (
	"context"

	"holocron/application/queries"
	"holocron/application/store"
	"holocron/pkg/utils"
)

// ListPendingEditsHandler handles ListPendingEditsQuery
type ListPendingEditsHandler struct {
	store *store.OverlayStore
}

// NewListPendingEditsHandler creates a new handler instance
func NewListPendingEditsHandler(overlay *store.OverlayStore) *ListPendingEditsHandler {
	return &ListPendingEditsHandler{store: overlay}
}

// Handle lists the edited characters ordered by URL
func (h *ListPendingEditsHandler) Handle(ctx context.Context, query queries.ListPendingEditsQuery) (*queries.ListPendingEditsResult, error) {
	keys := h.store.Keys()
	edits := make([]queries.PendingEdit, 0, len(keys))
	for _, url := range keys {
		edit := queries.PendingEdit{ID: utils.ExtractIDFromURL(url), URL: url}
		if c := h.store.Resolve(url, nil); c != nil {
			edit.Name = c.Name
		}
		edits = append(edits, edit)
	}
	return &queries.ListPendingEditsResult{Edits: edits, Count: len(edits)}, nil
}
