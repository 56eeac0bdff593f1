package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/config"
	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database, c map[string]string) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(db, withConfig(c), withStartupTime(startupTime))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(db database.Database, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	storeTimeout := config.GetSeconds(router.config, "STORE_TIMEOUT_SECONDS", 5)
	webhookURL := config.GetString(router.config, "ERROR_WEBHOOK_URL", "")

	tokens := services.NewTokenIssuer(
		config.GetString(router.config, "ADMIN_TOKEN_SECRET", ""),
		time.Duration(config.GetInt(router.config, "ADMIN_TOKEN_TTL_MINUTES", 720))*time.Minute,
	)
	catalogue := services.NewCatalogueService(db, storeTimeout)
	auth := services.NewAuthService(db, tokens, storeTimeout)

	handlers := initializeHandlers(catalogue, auth, router.startupTime, webhookURL)
	authMiddleware := newAuthMiddleware(auth, webhookURL)

	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefulCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
