package handlers

import (
	"fmt"
	"net/http"

	"holocron/application/commands"
	"holocron/application/commands/bus"
	"holocron/application/queries"
	querybus "holocron/application/queries/bus"
	"holocron/pkg/common"
	"holocron/pkg/errors"

	"go.uber.org/zap"
)

// EditsHandler exposes the set of local edits
type EditsHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errHandler *errors.ErrorHandler
	logger     *zap.Logger
}

// NewEditsHandler creates a new edits handler
func NewEditsHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errHandler *errors.ErrorHandler,
	logger *zap.Logger,
) *EditsHandler {
	return &EditsHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errHandler: errHandler,
		logger:     logger,
	}
}

// ListEdits handles GET /edits
func (h *EditsHandler) ListEdits(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListPendingEditsQuery{})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	edits, ok := result.(*queries.ListPendingEditsResult)
	if !ok {
		h.errHandler.Handle(w, r, errors.NewInternalError(fmt.Sprintf("unexpected edits result %T", result)))
		return
	}
	common.RespondWithMeta(w, r, http.StatusOK, edits, nil)
}

// ClearEdits handles DELETE /edits
func (h *EditsHandler) ClearEdits(w http.ResponseWriter, r *http.Request) {
	if err := h.commandBus.Send(r.Context(), commands.ClearCharacterEditsCommand{}); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	h.logger.Info("Cleared all local edits", zap.String("requestID", common.ExtractRequestID(r)))
	common.RespondNoContent(w)
}
