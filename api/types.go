package api

import (
	"time"

	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/models"
)

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// DeleteResponse reports what a delete removed
type DeleteResponse struct {
	Status     string `json:"status" example:"success"`
	Message    string `json:"message"`
	Layers     int64  `json:"layers_deleted"`
	Categories int64  `json:"categories_deleted"`
	TechItems  int64  `json:"tech_items_deleted"`
}

func newDeleteResponse(message string, report database.DeleteReport) DeleteResponse {
	return DeleteResponse{
		Status:     "success",
		Message:    message,
		Layers:     report.Layers,
		Categories: report.Categories,
		TechItems:  report.TechItems,
	}
}

// StatusResponse is a plain success acknowledgement
type StatusResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
}

// MoveResponse lists the display orders written by a move
type MoveResponse struct {
	Status  string               `json:"status" example:"success"`
	Updates []models.OrderUpdate `json:"updates"`
}

// TagDeleteResponse reports how many items lost the tag
type TagDeleteResponse struct {
	Status string `json:"status" example:"success"`
	Tag    string `json:"tag"`
	Items  int    `json:"items_updated"`
}

// HealthResponse describes the running server
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}
