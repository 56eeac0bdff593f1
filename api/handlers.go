package api

import (
	"time"

	"github.com/tutusiji/lantu-next/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler     authHandler
	layerHandler    layerHandler
	categoryHandler categoryHandler
	techItemHandler techItemHandler
	orderHandler    orderHandler
	insightsHandler insightsHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(catalogue *services.CatalogueService, auth *services.AuthService, startupTime time.Time, webhookURL string) *routeHandlers {
	return &routeHandlers{
		authHandler:     newAuthHandler(auth, startupTime, webhookURL),
		layerHandler:    newLayerHandler(catalogue, webhookURL),
		categoryHandler: newCategoryHandler(catalogue, webhookURL),
		techItemHandler: newTechItemHandler(catalogue, webhookURL),
		orderHandler:    newOrderHandler(catalogue, webhookURL),
		insightsHandler: newInsightsHandler(catalogue, webhookURL),
	}
}
