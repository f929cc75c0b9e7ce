package handlers

import (
	"fmt"
	"net/http"

	"holocron/application/commands"
	"holocron/application/commands/bus"
	"holocron/application/queries"
	querybus "holocron/application/queries/bus"
	"holocron/application/services"
	"holocron/domain/character"
	"holocron/pkg/common"
	"holocron/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxFormBytes bounds the size of an edit submission.
const maxFormBytes = 16 << 10

// CharacterHandler handles character-related HTTP requests
type CharacterHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errHandler *errors.ErrorHandler
	logger     *zap.Logger
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errHandler *errors.ErrorHandler,
	logger *zap.Logger,
) *CharacterHandler {
	return &CharacterHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errHandler: errHandler,
		logger:     logger,
	}
}

// SaveCharacterResponse is returned after a successful edit.
type SaveCharacterResponse struct {
	Message string `json:"message"`
	*queries.GetCharacterResult
}

// ListCharacters handles GET /characters
func (h *CharacterHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	params, err := common.ExtractPageParams(r)
	if err != nil {
		h.errHandler.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListCharactersQuery{
		Page:   params.Page,
		Search: params.Search,
	})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	list, ok := result.(*queries.ListCharactersResult)
	if !ok {
		h.errHandler.Handle(w, r, errors.NewInternalError(fmt.Sprintf("unexpected list result %T", result)))
		return
	}

	page := 1
	if params.Page != nil {
		page = *params.Page
	}
	common.RespondWithMeta(w, r, http.StatusOK, list, &common.MetaInfo{
		Pagination: common.BuildPaginationMeta(page, common.CatalogPageSize, list.Count, list.Next != nil),
	})
}

// GetCharacter handles GET /characters/{id}
func (h *CharacterHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	detail, err := h.detail(r, chi.URLParam(r, "id"))
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, r, http.StatusOK, detail, nil)
}

// SaveCharacter handles PUT /characters/{id}
func (h *CharacterHandler) SaveCharacter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var form character.FormData
	if err := common.ParseJSONBody(w, r, &form, maxFormBytes); err != nil {
		h.errHandler.Handle(w, r, errors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	detail, err := h.detail(r, id)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	cmd := commands.SaveCharacterEditCommand{
		Original: detail.Character,
		Form:     form,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	saved, err := h.detail(r, id)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, r, http.StatusOK, SaveCharacterResponse{
		Message:            services.SavedMessage,
		GetCharacterResult: saved,
	}, nil)
}

// ResetCharacter handles DELETE /characters/{id}/edits
func (h *CharacterHandler) ResetCharacter(w http.ResponseWriter, r *http.Request) {
	detail, err := h.detail(r, chi.URLParam(r, "id"))
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.ResetCharacterEditCommand{URL: detail.Character.URL}); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *CharacterHandler) detail(r *http.Request, id string) (*queries.GetCharacterResult, error) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetCharacterQuery{ID: id})
	if err != nil {
		return nil, err
	}
	detail, ok := result.(*queries.GetCharacterResult)
	if !ok {
		return nil, errors.NewInternalError(fmt.Sprintf("unexpected character result %T", result))
	}
	return detail, nil
}
