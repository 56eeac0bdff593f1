package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/services"
)

type authHandler struct {
	responder   Responder
	logger      zerolog.Logger
	auth        *services.AuthService
	startupTime time.Time
}

func newAuthHandler(auth *services.AuthService, startupTime time.Time, webhookURL string) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:   NewResponder(logger, webhookURL),
		logger:      logger,
		auth:        auth,
		startupTime: startupTime,
	}
}

// login checks the admin credential pair and issues an admin token
// @Summary Admin login
// @Description Compares the credentials with the stored admin account and returns a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Username and password"
// @Success 200 {object} services.LoginResult "Token"
// @Failure 400 {object} ErrorResponse "Bad Request - Malformed body"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.LoginRequest
		if err := decodeJSON(w, r, &req, "login"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// health reports that the server is up
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Server status"
// @Router /health [get]
func (h authHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, HealthResponse{
			Status:    "ok",
			StartedAt: h.startupTime,
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
