package models

// Layer is the top-level grouping of categories on the dashboard
type Layer struct {
	ID           int64      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name         string     `json:"name" db:"name" gorm:"type:text;not null"`
	Icon         string     `json:"icon" db:"icon" gorm:"type:text"`
	DisplayOrder int        `json:"display_order" db:"display_order" gorm:"not null;default:0;index:idx_layer_order"`
	Categories   []Category `json:"categories,omitempty" gorm:"foreignKey:LayerID;references:ID;constraint:OnDelete:CASCADE"`
}
