package handlers

import (
	"context"

	"holocron/application/queries"
	"holocron/application/store"
	"holocron/domain/character"

	"go.uber.org/zap"
)

// GetCharacterHandler handles single character queries
type GetCharacterHandler struct {
	client *queries.QueryClient
	store  *store.OverlayStore
	logger *zap.Logger
}

// NewGetCharacterHandler creates a new get handler
func NewGetCharacterHandler(client *queries.QueryClient, overlay *store.OverlayStore, logger *zap.Logger) *GetCharacterHandler {
	return &GetCharacterHandler{
		client: client,
		store:  overlay,
		logger: logger,
	}
}

// Handle fetches the character and resolves it against the overlay.
func (h *GetCharacterHandler) Handle(ctx context.Context, query queries.GetCharacterQuery) (*queries.GetCharacterResult, error) {
	original, err := h.client.Person(ctx, query.ID)
	if err != nil {
		return nil, err
	}

	resolved := h.store.Resolve(original.URL, original)

	return &queries.GetCharacterResult{
		ID:              query.ID,
		Character:       *resolved,
		HasLocalChanges: h.store.HasPendingEdit(original.URL),
		Form:            character.FormValues(*resolved),
	}, nil
}
