package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/services"
)

type insightsHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalogue *services.CatalogueService
}

func newInsightsHandler(catalogue *services.CatalogueService, webhookURL string) insightsHandler {
	logger := log.With().Str("handlerName", "insightsHandler").Logger()

	return insightsHandler{
		responder: NewResponder(logger, webhookURL),
		logger:    logger,
		catalogue: catalogue,
	}
}

// getStats computes coverage over all tech items
// @Summary Get stats
// @Description Counts active and missing tech items. coverage is active/total with one decimal.
// @Tags Insights
// @Produce json
// @Success 200 {object} models.Stats "Coverage stats"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error counting tech items"
// @Router /stats [get]
func (h insightsHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.catalogue.Stats(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, stats)
	}
}

// getDashboard returns the full data set in one response
// @Summary Get dashboard
// @Description Returns layers, categories, tech items, stats and tag counts
// @Tags Insights
// @Produce json
// @Success 200 {object} models.Dashboard "Dashboard"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error loading dashboard"
// @Router /dashboard [get]
func (h insightsHandler) getDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := h.catalogue.Dashboard(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, dashboard)
	}
}

// getTags counts tag usage
// @Summary Get tags
// @Description Returns every tag with the number of items carrying it, most used first
// @Tags Insights
// @Produce json
// @Success 200 {array} models.TagCount "Tag counts"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error listing tags"
// @Router /tags [get]
func (h insightsHandler) getTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.catalogue.Tags(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

// deleteTag removes a tag from every tech item
// @Summary Delete tag
// @Description Strips the tag from every tech item carrying it
// @Tags Insights
// @Produce json
// @Security BearerAuth
// @Param tag path string true "Tag"
// @Success 200 {object} TagDeleteResponse "Items updated"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing tag"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Transaction failed"
// @Router /tag/{tag} [delete]
func (h insightsHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag, err := url.PathUnescape(chi.URLParam(r, "tag"))
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("tag", "invalid path escape"))
			return
		}

		changed, err := h.catalogue.DeleteTag(r.Context(), tag)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", adminName(r.Context())).Str("tag", tag).Int("items", changed).Msg("tag deleted")
		h.responder.WriteJSON(w, TagDeleteResponse{Status: "success", Tag: tag, Items: changed})
	}
}
