package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/services"
)

type layerHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalogue *services.CatalogueService
}

func newLayerHandler(catalogue *services.CatalogueService, webhookURL string) layerHandler {
	logger := log.With().Str("handlerName", "layerHandler").Logger()

	return layerHandler{
		responder: NewResponder(logger, webhookURL),
		logger:    logger,
		catalogue: catalogue,
	}
}

// getAllLayers retrieves every layer in display order
// @Summary Get all layers
// @Description Retrieves all layers ordered by display_order
// @Tags Layers
// @Produce json
// @Success 200 {array} models.Layer "Layers"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching layers"
// @Router /layers [get]
func (h layerHandler) getAllLayers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layers, err := h.catalogue.ListLayers(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, layers)
	}
}

// createLayer appends a new layer
// @Summary Create layer
// @Description Creates a layer after the existing ones
// @Tags Layers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param layer body services.CreateLayerRequest true "Layer data"
// @Success 201 {object} models.Layer "Created layer"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid layer data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating layer"
// @Router /layer [post]
func (h layerHandler) createLayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.CreateLayerRequest
		if err := decodeJSON(w, r, &req, "layer"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		layer, err := h.catalogue.CreateLayer(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", adminName(r.Context())).Int64("layerID", layer.ID).Msg("layer created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, layer)
	}
}

// updateLayer changes the name or icon of a layer
// @Summary Update layer
// @Description Updates the fields present in the body
// @Tags Layers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param layerID path int true "Layer ID"
// @Param layer body services.UpdateLayerRequest true "Changed fields"
// @Success 200 {object} models.Layer "Updated layer"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid layer data"
// @Failure 404 {object} ErrorResponse "Not Found - Layer not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating layer"
// @Router /layer/{layerID} [put]
func (h layerHandler) updateLayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layerID, err := idParam(r, "layerID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req services.UpdateLayerRequest
		if err := decodeJSON(w, r, &req, "layer"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		layer, err := h.catalogue.UpdateLayer(r.Context(), layerID, req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, layer)
	}
}

// deleteLayer deletes a layer with its categories and their tech items
// @Summary Delete layer
// @Description Deletes a layer and everything under it, then closes the gap in layer order
// @Tags Layers
// @Produce json
// @Security BearerAuth
// @Param layerID path int true "Layer ID"
// @Success 200 {object} DeleteResponse "Rows removed"
// @Failure 404 {object} ErrorResponse "Not Found - Layer not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting layer"
// @Router /layer/{layerID} [delete]
func (h layerHandler) deleteLayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		layerID, err := idParam(r, "layerID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		report, err := h.catalogue.DeleteLayer(r.Context(), layerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", adminName(r.Context())).Int64("layerID", layerID).Msg("layer deleted")
		h.responder.WriteJSON(w, newDeleteResponse("layer deleted successfully", report))
	}
}
