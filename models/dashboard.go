package models

// Dashboard is the full authoritative data set the client replaces its state with.
type Dashboard struct {
	Layers     []Layer    `json:"layers"`
	Categories []Category `json:"categories"`
	TechItems  []TechItem `json:"tech_items"`
	Stats      Stats      `json:"stats"`
	Tags       []TagCount `json:"tags"`
}

// SolutionColumn is one column of a solution category with the items tagged for it.
type SolutionColumn struct {
	Column ColumnDef  `json:"column"`
	Items  []TechItem `json:"items"`
}

// SolutionView groups a solution category's items by column.
type SolutionView struct {
	Category    Category         `json:"category"`
	Description string           `json:"description"`
	Columns     []SolutionColumn `json:"columns"`
	Unassigned  []TechItem       `json:"unassigned"`
}
