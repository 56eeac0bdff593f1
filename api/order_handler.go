package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/services"
)

type orderHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalogue *services.CatalogueService
}

func newOrderHandler(catalogue *services.CatalogueService, webhookURL string) orderHandler {
	logger := log.With().Str("handlerName", "orderHandler").Logger()

	return orderHandler{
		responder: NewResponder(logger, webhookURL),
		logger:    logger,
		catalogue: catalogue,
	}
}

// reorder persists a whole-scope restamp
// @Summary Reorder scope
// @Description Writes new display orders for every row of one scope. All rows change or none do.
// @Tags Ordering
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reorder body services.ReorderRequest true "Scope type and updates"
// @Success 200 {object} StatusResponse "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Unknown type or updates not covering the scope"
// @Failure 404 {object} ErrorResponse "Not Found - Row not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Transaction failed, nothing was changed"
// @Router /reorder [post]
func (h orderHandler) reorder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.ReorderRequest
		if err := decodeJSON(w, r, &req, "reorder"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		kind, err := models.ParseScopeKind(req.Type)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidScopeError(req.Type))
			return
		}

		if err := h.catalogue.Reorder(r.Context(), kind, req.Updates); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", adminName(r.Context())).Str("scope", string(kind)).Int("rows", len(req.Updates)).Msg("scope reordered")
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "order updated successfully"})
	}
}

// move moves one row of a scope and persists the restamp
// @Summary Move row
// @Description Moves the row at index from to index to within one scope and restamps the scope 1..N
// @Tags Ordering
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param move body services.MoveRequest true "Scope, parent and indexes"
// @Success 200 {object} MoveResponse "Display orders written"
// @Failure 400 {object} ErrorResponse "Bad Request - Index out of range"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Transaction failed, nothing was changed"
// @Router /reorder/move [post]
func (h orderHandler) move() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.MoveRequest
		if err := decodeJSON(w, r, &req, "move"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		kind, err := models.ParseScopeKind(req.Type)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidScopeError(req.Type))
			return
		}

		updates, err := h.catalogue.Move(r.Context(), kind, req.ParentID, req.From, req.To)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if updates == nil {
			updates = []models.OrderUpdate{}
		}
		h.responder.WriteJSON(w, MoveResponse{Status: "success", Updates: updates})
	}
}
