package testutil

import (
	"context"
	"testing"

	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/models"
)

// Layer options
type LayerOption func(*models.Layer)

func WithLayerIcon(icon string) LayerOption {
	return func(l *models.Layer) {
		l.Icon = icon
	}
}

func WithLayerOrder(order int) LayerOption {
	return func(l *models.Layer) {
		l.DisplayOrder = order
	}
}

func NewTestLayer(name string, opts ...LayerOption) *models.Layer {
	l := &models.Layer{
		Name: name,
		Icon: "Layers",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Category options
type CategoryOption func(*models.Category)

func WithCategoryIcon(icon models.IconSpec) CategoryOption {
	return func(c *models.Category) {
		c.Icon = icon
	}
}

func WithCategoryOrder(order int) CategoryOption {
	return func(c *models.Category) {
		c.DisplayOrder = order
	}
}

func NewTestCategory(layerID int64, name string, opts ...CategoryOption) *models.Category {
	c := &models.Category{
		Name:    name,
		LayerID: layerID,
		Icon:    models.NamedIcon("Box"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TechItem options
type TechItemOption func(*models.TechItem)

func WithStatus(s models.Status) TechItemOption {
	return func(t *models.TechItem) {
		t.Status = s
	}
}

func WithPriority(p models.Priority) TechItemOption {
	return func(t *models.TechItem) {
		t.Priority = p
	}
}

func WithTags(tags string) TechItemOption {
	return func(t *models.TechItem) {
		t.Tags = tags
	}
}

func WithItemOrder(order int) TechItemOption {
	return func(t *models.TechItem) {
		t.DisplayOrder = order
	}
}

func WithIsNew() TechItemOption {
	return func(t *models.TechItem) {
		t.IsNew = true
	}
}

func NewTestTechItem(categoryID int64, name string, opts ...TechItemOption) *models.TechItem {
	t := &models.TechItem{
		Name:       name,
		CategoryID: categoryID,
		Status:     models.StatusActive,
		Priority:   models.PriorityNone,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Catalogue is a small seeded tree: two layers, three categories in the first
// layer and three items in the first category.
type Catalogue struct {
	Layers     []*models.Layer
	Categories []*models.Category
	TechItems  []*models.TechItem
}

// SeedCatalogue inserts the Catalogue fixture with display orders 1..N per scope.
func SeedCatalogue(t *testing.T, db database.Database) Catalogue {
	t.Helper()
	ctx := context.Background()

	var c Catalogue
	for i, name := range []string{"Frontend", "Backend"} {
		l := NewTestLayer(name, WithLayerOrder(i+1))
		if err := db.LayerRepo().Add(ctx, l); err != nil {
			t.Fatalf("seeding layer: %v", err)
		}
		c.Layers = append(c.Layers, l)
	}

	for i, name := range []string{"Frameworks", "Styling", "Testing"} {
		cat := NewTestCategory(c.Layers[0].ID, name, WithCategoryOrder(i+1))
		if err := db.CategoryRepo().Add(ctx, cat); err != nil {
			t.Fatalf("seeding category: %v", err)
		}
		c.Categories = append(c.Categories, cat)
	}

	items := []*models.TechItem{
		NewTestTechItem(c.Categories[0].ID, "React", WithItemOrder(1), WithTags("frontend,spa")),
		NewTestTechItem(c.Categories[0].ID, "Vue", WithItemOrder(2), WithTags("frontend")),
		NewTestTechItem(c.Categories[0].ID, "Svelte", WithItemOrder(3), WithStatus(models.StatusMissing), WithPriority(models.PriorityHigh)),
	}
	for _, item := range items {
		if err := db.TechItemRepo().Add(ctx, item); err != nil {
			t.Fatalf("seeding tech item: %v", err)
		}
	}
	c.TechItems = items
	return c
}
