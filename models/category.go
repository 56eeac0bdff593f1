package models

// Category is a named bucket of tech items within a layer. Its icon is either
// an icon name or a solution layout with custom sub-columns.
type Category struct {
	ID           int64      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name         string     `json:"name" db:"name" gorm:"type:text;not null"`
	Icon         IconSpec   `json:"icon" db:"icon" gorm:"type:text"`
	LayerID      int64      `json:"layer_id" db:"layer_id" gorm:"not null;index:idx_category_scope,priority:1"`
	DisplayOrder int        `json:"display_order" db:"display_order" gorm:"not null;default:0;index:idx_category_scope,priority:2"`
	TechItems    []TechItem `json:"tech_items,omitempty" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE"`
}

// IsSolution reports whether the category carries a custom column layout.
func (c Category) IsSolution() bool {
	return c.Icon.IsLayout()
}
