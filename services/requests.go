package services

import "github.com/tutusiji/lantu-next/models"

// CreateLayerRequest is the payload for a new layer
type CreateLayerRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// UpdateLayerRequest changes only the fields that are set
type UpdateLayerRequest struct {
	Name *string `json:"name,omitempty"`
	Icon *string `json:"icon,omitempty"`
}

// CreateCategoryRequest is the payload for a new category
type CreateCategoryRequest struct {
	Name    string          `json:"name"`
	Icon    models.IconSpec `json:"icon"`
	LayerID int64           `json:"layer_id"`
}

// UpdateCategoryRequest changes only the fields that are set. A new LayerID
// moves the category to the end of that layer.
type UpdateCategoryRequest struct {
	Name    *string          `json:"name,omitempty"`
	Icon    *models.IconSpec `json:"icon,omitempty"`
	LayerID *int64           `json:"layer_id,omitempty"`
}

// CreateTechItemRequest is the payload for a new tech item
type CreateTechItemRequest struct {
	Name        string `json:"name"`
	CategoryID  int64  `json:"category_id"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	IsNew       bool   `json:"is_new"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

// UpdateTechItemRequest changes only the fields that are set. A new
// CategoryID moves the item to the end of that category.
type UpdateTechItemRequest struct {
	Name        *string `json:"name,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	IsNew       *bool   `json:"is_new,omitempty"`
	Description *string `json:"description,omitempty"`
	Tags        *string `json:"tags,omitempty"`
}

// ReorderRequest restamps one whole scope
type ReorderRequest struct {
	Type    string               `json:"type"`
	Updates []models.OrderUpdate `json:"updates"`
}

// MoveRequest moves one element of a scope from index From to index To.
// ParentID names the layer (categories) or category (tech items).
type MoveRequest struct {
	Type     string `json:"type"`
	ParentID int64  `json:"parent_id"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

// LoginRequest carries the admin credential pair
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
