package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tutusiji/lantu-next/errs"
)

const notificationTimeout = 5 * time.Second

type Responder struct {
	logger     zerolog.Logger
	webhookURL string
	client     *http.Client
}

// NewResponder builds a responder. Unexpected errors are posted to webhookURL
// when it is set.
func NewResponder(logger zerolog.Logger, webhookURL string) Responder {
	return Responder{
		logger:     logger,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: notificationTimeout},
	}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

// WriteJSONStatus marshals data before writing any header so a marshal
// failure can still turn into a 500.
func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")

		truncated, _ := json.Marshal(map[string]any{
			"error":        "Response too large",
			"message":      "The requested data exceeds the maximum response size",
			"maxSizeMB":    maxResponseSize / (1024 * 1024),
			"actualSizeMB": len(jsonData) / (1024 * 1024),
		})
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write(truncated)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// SendErrorNotification posts errMsg to the configured webhook
func (r Responder) SendErrorNotification(errMsg string) {
	if r.webhookURL == "" {
		return
	}

	jsonData, err := json.Marshal(map[string]string{"errorMessage": errMsg})
	if err != nil {
		r.logger.Error().Err(err).Msg("Error marshaling error notification request")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.webhookURL, bytes.NewReader(jsonData))
	if err != nil {
		r.logger.Error().Err(err).Msg("Error building error notification")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error sending error notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Error().Msgf("Error notification webhook returned status: %d", resp.StatusCode)
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		go r.SendErrorNotification(err.Error())
		r.WriteJSONStatus(w, http.StatusInternalServerError, map[string]any{
			"error":   "Internal Server Error",
			"message": "An unexpected error occurred",
			"status":  "error",
		})
		return
	}

	response := map[string]any{
		"error":  apiErr.Error(),
		"status": "error",
	}
	if apiErr.Field != "" {
		response["field"] = apiErr.Field
	}
	if apiErr.Details != "" {
		response["details"] = apiErr.Details
	}
	if apiErr.Cause != nil {
		response["cause"] = apiErr.GetFullError()
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("request failed")
		go r.SendErrorNotification(apiErr.GetFullError())
	}
	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}
