package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// IconKind discriminates the two shapes a category icon can take.
type IconKind string

const (
	IconKindNamed  IconKind = "named"
	IconKindLayout IconKind = "layout"
)

// ColumnDef is one sub-column of a solution layout. Tech items belong to a
// column when their tags contain the column id.
type ColumnDef struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
	Bg    string `json:"bg,omitempty" yaml:"bg,omitempty"`
}

// SolutionLayout is the layout variant of IconSpec.
type SolutionLayout struct {
	Description string      `json:"description"`
	Columns     []ColumnDef `json:"columns"`
}

// IconSpec is either Named(name) or Layout(description, columns). It is stored
// in a single text column: a bare name, or the JSON encoding of the layout.
type IconSpec struct {
	kind   IconKind
	name   string
	layout SolutionLayout
}

func NamedIcon(name string) IconSpec {
	return IconSpec{kind: IconKindNamed, name: strings.TrimSpace(name)}
}

// LayoutIcon builds a layout icon; an empty column list gets DefaultColumns.
func LayoutIcon(description string, columns []ColumnDef) IconSpec {
	if len(columns) == 0 {
		columns = DefaultColumns()
	}
	cols := make([]ColumnDef, len(columns))
	copy(cols, columns)
	return IconSpec{kind: IconKindLayout, layout: SolutionLayout{Description: description, Columns: cols}}
}

// DefaultColumns is the column set a new solution category starts with.
func DefaultColumns() []ColumnDef {
	return []ColumnDef{
		{ID: "frontend", Name: "前端", Icon: "Layout", Color: "text-blue-400", Bg: "bg-blue-500/10"},
		{ID: "backend", Name: "后端", Icon: "Server", Color: "text-emerald-400", Bg: "bg-emerald-500/10"},
		{ID: "devops", Name: "运维", Icon: "Settings", Color: "text-purple-400", Bg: "bg-purple-500/10"},
		{ID: "database", Name: "数据库", Icon: "Database", Color: "text-amber-400", Bg: "bg-amber-500/10"},
	}
}

// ParseIconSpec is the single read boundary of the stored icon text. A JSON
// object is a layout; anything else, including malformed JSON, is a name.
func ParseIconSpec(stored string) IconSpec {
	trimmed := strings.TrimSpace(stored)
	if !strings.HasPrefix(trimmed, "{") || !json.Valid([]byte(trimmed)) {
		return NamedIcon(trimmed)
	}

	var raw struct {
		Description string          `json:"description"`
		Columns     json.RawMessage `json:"columns"`
	}
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return NamedIcon(trimmed)
	}

	var columns []ColumnDef
	if len(raw.Columns) > 0 {
		// a non-array "columns" falls back to the defaults
		if err := json.Unmarshal(raw.Columns, &columns); err != nil {
			columns = nil
		}
	}
	return LayoutIcon(raw.Description, columns)
}

func (i IconSpec) Kind() IconKind {
	if i.kind == "" {
		return IconKindNamed
	}
	return i.kind
}

func (i IconSpec) IsLayout() bool {
	return i.kind == IconKindLayout
}

// Name is the icon name of a named icon, empty for layouts.
func (i IconSpec) Name() string {
	if i.IsLayout() {
		return ""
	}
	return i.name
}

// Layout returns the layout and whether the icon is one.
func (i IconSpec) Layout() (SolutionLayout, bool) {
	if !i.IsLayout() {
		return SolutionLayout{}, false
	}
	cols := make([]ColumnDef, len(i.layout.Columns))
	copy(cols, i.layout.Columns)
	return SolutionLayout{Description: i.layout.Description, Columns: cols}, true
}

// Stored is the write boundary: the exact text persisted in the icon column.
func (i IconSpec) Stored() string {
	if !i.IsLayout() {
		return i.name
	}
	data, err := json.Marshal(i.layout)
	if err != nil {
		return ""
	}
	return string(data)
}

// Scan implements sql.Scanner.
func (i *IconSpec) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*i = NamedIcon("")
	case string:
		*i = ParseIconSpec(v)
	case []byte:
		*i = ParseIconSpec(string(v))
	default:
		return fmt.Errorf("scanning icon: unsupported type %T", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (i IconSpec) Value() (driver.Value, error) {
	return i.Stored(), nil
}

type iconJSON struct {
	Kind        IconKind    `json:"kind"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Columns     []ColumnDef `json:"columns,omitempty"`
}

func (i IconSpec) MarshalJSON() ([]byte, error) {
	if layout, ok := i.Layout(); ok {
		return json.Marshal(iconJSON{Kind: IconKindLayout, Description: layout.Description, Columns: layout.Columns})
	}
	return json.Marshal(iconJSON{Kind: IconKindNamed, Name: i.name})
}

// UnmarshalJSON accepts the tagged object or a legacy raw string, which goes
// through ParseIconSpec.
func (i *IconSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = NamedIcon("")
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ParseIconSpec(s)
		return nil
	}

	var obj iconJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding icon: %w", err)
	}
	switch obj.Kind {
	case IconKindLayout:
		*i = LayoutIcon(obj.Description, obj.Columns)
	case IconKindNamed, "":
		*i = NamedIcon(obj.Name)
	default:
		return fmt.Errorf("decoding icon: unknown kind %q", obj.Kind)
	}
	return nil
}
