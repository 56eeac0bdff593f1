package models

import "fmt"

type Status string

const (
	StatusActive  Status = "active"
	StatusMissing Status = "missing"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = ""
)

// TechItem is a single technology entry inside a category
type TechItem struct {
	ID           int64    `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name         string   `json:"name" db:"name" gorm:"type:text;not null"`
	CategoryID   int64    `json:"category_id" db:"category_id" gorm:"not null;index:idx_tech_item_scope,priority:1"`
	Status       Status   `json:"status" db:"status" gorm:"type:text;not null;check:chk_tech_item_status,status IN ('active','missing')"`
	Priority     Priority `json:"priority" db:"priority" gorm:"type:text;not null;default:'';check:chk_tech_item_priority,priority IN ('high','medium','low','')"`
	IsNew        bool     `json:"is_new" db:"is_new" gorm:"not null;default:false"`
	Description  string   `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	Tags         string   `json:"tags" db:"tags" gorm:"type:text;not null;default:''"`
	DisplayOrder int      `json:"display_order" db:"display_order" gorm:"not null;default:0;index:idx_tech_item_scope,priority:2"`
}

// ParseStatus accepts the two status values exactly as stored.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive:
		return StatusActive, nil
	case StatusMissing:
		return StatusMissing, nil
	}
	return "", fmt.Errorf("status %q must be one of active, missing", s)
}

// ParsePriority accepts high, medium, low or the empty string, exactly.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	case PriorityNone:
		return PriorityNone, nil
	}
	return "", fmt.Errorf("priority %q must be one of high, medium, low or empty", s)
}

// TagList returns the parsed tag set of the item.
func (t TechItem) TagList() []string {
	return ParseTags(t.Tags)
}
