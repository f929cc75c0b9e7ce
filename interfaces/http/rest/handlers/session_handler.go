package handlers

import (
	"context"
	"net/http"

	"holocron/application/services"
	"holocron/pkg/common"
	"holocron/pkg/errors"
	"holocron/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxSearchBytes = 4 << 10

// SessionHandler drives search sessions over HTTP. A session holds the
// debounced search text and the accumulated pages of one list view.
type SessionHandler struct {
	sessions   *services.SessionManager
	errHandler *errors.ErrorHandler
	logger     *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *services.SessionManager, errHandler *errors.ErrorHandler, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		errHandler: errHandler,
		logger:     logger,
	}
}

// SearchRequest represents the request body for changing the search text
type SearchRequest struct {
	Query string `json:"query" validate:"max=200"`
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create(r.Context())
	w.Header().Set("Location", "/api/v1/sessions/"+session.ID())
	common.RespondWithMeta(w, r, http.StatusCreated, session.State(), nil)
}

// GetSession handles GET /sessions/{sessionID}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, r, http.StatusOK, session.State(), nil)
}

// Search handles PUT /sessions/{sessionID}/search. The list switches to the
// new text only after it has been stable for the debounce interval, so the
// returned state usually still shows the previous term.
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	var req SearchRequest
	if err := common.ParseJSONBody(w, r, &req, maxSearchBytes); err != nil {
		h.errHandler.Handle(w, r, errors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errHandler.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}

	session.HandleSearchChange(req.Query)
	common.RespondWithMeta(w, r, http.StatusAccepted, session.State(), nil)
}

// NextPage handles POST /sessions/{sessionID}/next
func (h *SessionHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, (*services.SearchSession).HandleEndReached)
}

// Refetch handles POST /sessions/{sessionID}/refetch
func (h *SessionHandler) Refetch(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, (*services.SearchSession).Refetch)
}

// DeleteSession handles DELETE /sessions/{sessionID}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

// withSession runs a load on the session. A failed load is part of the
// session state, so the response is still 200 with isError set.
func (h *SessionHandler) withSession(w http.ResponseWriter, r *http.Request, load func(*services.SearchSession, context.Context) error) {
	session, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	if err := load(session, r.Context()); err != nil {
		h.logger.Debug("Session load failed",
			zap.String("session_id", session.ID()),
			zap.Error(err),
		)
	}
	common.RespondWithMeta(w, r, http.StatusOK, session.State(), nil)
}
