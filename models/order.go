package models

import (
	"fmt"
	"strings"
)

// ScopeKind names one of the three independently ordered collections.
type ScopeKind string

const (
	ScopeLayer    ScopeKind = "layer"
	ScopeCategory ScopeKind = "category"
	ScopeTechItem ScopeKind = "tech-item"
)

func ParseScopeKind(s string) (ScopeKind, error) {
	switch k := ScopeKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ScopeLayer, ScopeCategory, ScopeTechItem:
		return k, nil
	}
	return "", fmt.Errorf("scope %q must be one of layer, category, tech-item", s)
}

// Table is the store table holding rows of the scope.
func (k ScopeKind) Table() string {
	switch k {
	case ScopeLayer:
		return "layers"
	case ScopeCategory:
		return "categories"
	case ScopeTechItem:
		return "tech_items"
	}
	return ""
}

// ParentColumn is the column bounding the scope, empty for layers.
func (k ScopeKind) ParentColumn() string {
	switch k {
	case ScopeCategory:
		return "layer_id"
	case ScopeTechItem:
		return "category_id"
	}
	return ""
}

// OrderUpdate assigns a display order to one row.
type OrderUpdate struct {
	ID           int64 `json:"id"`
	DisplayOrder int   `json:"display_order"`
}
