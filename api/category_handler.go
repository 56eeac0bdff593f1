package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/services"
)

type categoryHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalogue *services.CatalogueService
}

func newCategoryHandler(catalogue *services.CatalogueService, webhookURL string) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder: NewResponder(logger, webhookURL),
		logger:    logger,
		catalogue: catalogue,
	}
}

// getAllCategories retrieves every category
// @Summary Get all categories
// @Description Retrieves all categories ordered by layer and display_order
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category "Categories"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching categories"
// @Router /categories [get]
func (h categoryHandler) getAllCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.catalogue.ListCategories(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, categories)
	}
}

// createCategory appends a new category to a layer
// @Summary Create category
// @Description Creates a category at the end of its layer. The icon is either a named icon or a solution layout.
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body services.CreateCategoryRequest true "Category data"
// @Success 201 {object} models.Category "Created category"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid category data"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating category"
// @Router /category [post]
func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.CreateCategoryRequest
		if err := decodeJSON(w, r, &req, "category"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.catalogue.CreateCategory(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", adminName(r.Context())).Int64("categoryID", category.ID).Msg("category created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, category)
	}
}

// updateCategory changes the fields present in the body
// @Summary Update category
// @Description Updates a category. A new layer_id moves it to the end of that layer.
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param categoryID path int true "Category ID"
// @Param category body services.UpdateCategoryRequest true "Changed fields"
// @Success 200 {object} models.Category "Updated category"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid category data"
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating category"
// @Router /category/{categoryID} [put]
func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := idParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req services.UpdateCategoryRequest
		if err := decodeJSON(w, r, &req, "category"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.catalogue.UpdateCategory(r.Context(), categoryID, req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, category)
	}
}

// deleteCategory deletes a category with its tech items
// @Summary Delete category
// @Description Deletes a category and its tech items, then closes the gap in its layer
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param categoryID path int true "Category ID"
// @Success 200 {object} DeleteResponse "Rows removed"
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting category"
// @Router /category/{categoryID} [delete]
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := idParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		report, err := h.catalogue.DeleteCategory(r.Context(), categoryID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", adminName(r.Context())).Int64("categoryID", categoryID).Msg("category deleted")
		h.responder.WriteJSON(w, newDeleteResponse("category deleted successfully", report))
	}
}

// getSolution groups a solution category's items by layout column
// @Summary Get solution view
// @Description Returns the layout columns of a solution category with the items tagged for each
// @Tags Categories
// @Produce json
// @Param categoryID path int true "Category ID"
// @Success 200 {object} models.SolutionView "Solution view"
// @Failure 400 {object} ErrorResponse "Bad Request - Category is not a solution layout"
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Router /category/{categoryID}/solution [get]
func (h categoryHandler) getSolution() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := idParam(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		view, err := h.catalogue.SolutionView(r.Context(), categoryID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, view)
	}
}
