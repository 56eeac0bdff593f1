package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/services"
)

type techItemHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalogue *services.CatalogueService
}

func newTechItemHandler(catalogue *services.CatalogueService, webhookURL string) techItemHandler {
	logger := log.With().Str("handlerName", "techItemHandler").Logger()

	return techItemHandler{
		responder: NewResponder(logger, webhookURL),
		logger:    logger,
		catalogue: catalogue,
	}
}

// getTechItems retrieves tech items, optionally filtered
// @Summary Get tech items
// @Description Retrieves tech items. filter is all, active, missing or a tag name.
// @Tags TechItems
// @Produce json
// @Param filter query string false "all | active | missing | <tag>"
// @Success 200 {array} models.TechItem "Tech items"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching tech items"
// @Router /tech-items [get]
func (h techItemHandler) getTechItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.catalogue.ListTechItems(r.Context(), r.URL.Query().Get("filter"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, items)
	}
}

// createTechItem appends a new tech item to a category
// @Summary Create tech item
// @Description Creates a tech item at the end of its category
// @Tags TechItems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param techItem body services.CreateTechItemRequest true "Tech item data"
// @Success 201 {object} models.TechItem "Created tech item"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid tech item data"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating tech item"
// @Router /tech-item [post]
func (h techItemHandler) createTechItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.CreateTechItemRequest
		if err := decodeJSON(w, r, &req, "tech item"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.catalogue.CreateTechItem(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", adminName(r.Context())).Int64("techItemID", item.ID).Msg("tech item created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, item)
	}
}

// updateTechItem changes the fields present in the body
// @Summary Update tech item
// @Description Partially updates a tech item. A new category_id moves it to the end of that category.
// @Tags TechItems
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param techItemID path int true "Tech item ID"
// @Param techItem body services.UpdateTechItemRequest true "Changed fields"
// @Success 200 {object} models.TechItem "Updated tech item"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid tech item data"
// @Failure 404 {object} ErrorResponse "Not Found - Tech item not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating tech item"
// @Router /tech-item/{techItemID} [put]
func (h techItemHandler) updateTechItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		techItemID, err := idParam(r, "techItemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req services.UpdateTechItemRequest
		if err := decodeJSON(w, r, &req, "tech item"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.catalogue.UpdateTechItem(r.Context(), techItemID, req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, item)
	}
}

// deleteTechItem deletes a tech item
// @Summary Delete tech item
// @Description Deletes a tech item and closes the gap in its category
// @Tags TechItems
// @Produce json
// @Security BearerAuth
// @Param techItemID path int true "Tech item ID"
// @Success 200 {object} StatusResponse "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Tech item not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting tech item"
// @Router /tech-item/{techItemID} [delete]
func (h techItemHandler) deleteTechItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		techItemID, err := idParam(r, "techItemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.catalogue.DeleteTechItem(r.Context(), techItemID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", adminName(r.Context())).Int64("techItemID", techItemID).Msg("tech item deleted")
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "tech item deleted successfully"})
	}
}
