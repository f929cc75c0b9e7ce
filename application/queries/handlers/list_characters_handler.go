package handlers

import (
	"context"

	"holocron/application/queries"
	"holocron/domain/character"

	"go.uber.org/zap"
)

// ListCharactersHandler handles character listing queries. Records are
// returned as fetched; local edits only show in the detail view.
type ListCharactersHandler struct {
	client *queries.QueryClient
	logger *zap.Logger
}

// NewListCharactersHandler creates a new list handler
func NewListCharactersHandler(client *queries.QueryClient, logger *zap.Logger) *ListCharactersHandler {
	return &ListCharactersHandler{
		client: client,
		logger: logger,
	}
}

// Handle executes the list query
func (h *ListCharactersHandler) Handle(ctx context.Context, query queries.ListCharactersQuery) (*queries.ListCharactersResult, error) {
	page, err := h.client.Page(ctx, character.SearchParams{Page: query.Page, Search: query.Search})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Listed characters",
		zap.Int("count", page.Count),
		zap.Int("results", len(page.Results)),
	)

	return &queries.ListCharactersResult{
		Count:    page.Count,
		Next:     page.Next,
		Previous: page.Previous,
		Results:  queries.ListItems(page.Results),
	}, nil
}
