package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public read routes and the admin-only mutations
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.authHandler.health())
		r.Post("/login", handlers.authHandler.login())

		r.Get("/layers", handlers.layerHandler.getAllLayers())
		r.Get("/categories", handlers.categoryHandler.getAllCategories())
		r.Get("/category/{categoryID}/solution", handlers.categoryHandler.getSolution())
		r.Get("/tech-items", handlers.techItemHandler.getTechItems())
		r.Get("/stats", handlers.insightsHandler.getStats())
		r.Get("/dashboard", handlers.insightsHandler.getDashboard())
		r.Get("/tags", handlers.insightsHandler.getTags())

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Post("/layer", handlers.layerHandler.createLayer())
			r.Put("/layer/{layerID}", handlers.layerHandler.updateLayer())
			r.Delete("/layer/{layerID}", handlers.layerHandler.deleteLayer())

			r.Post("/category", handlers.categoryHandler.createCategory())
			r.Put("/category/{categoryID}", handlers.categoryHandler.updateCategory())
			r.Delete("/category/{categoryID}", handlers.categoryHandler.deleteCategory())

			r.Post("/tech-item", handlers.techItemHandler.createTechItem())
			r.Put("/tech-item/{techItemID}", handlers.techItemHandler.updateTechItem())
			r.Delete("/tech-item/{techItemID}", handlers.techItemHandler.deleteTechItem())

			r.Post("/reorder", handlers.orderHandler.reorder())
			r.Post("/reorder/move", handlers.orderHandler.move())

			r.Delete("/tag/{tag}", handlers.insightsHandler.deleteTag())
		})
	})
}
