// Package seed loads the default catalogue and writes it to a store.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/models"
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

type Catalogue struct {
	Admin  Admin   `yaml:"admin"`
	Layers []Layer `yaml:"layers"`
}

type Admin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Layer struct {
	Name       string     `yaml:"name"`
	Icon       string     `yaml:"icon"`
	Categories []Category `yaml:"categories"`
}

// Category carries either a plain icon name or a solution layout.
type Category struct {
	Name   string  `yaml:"name"`
	Icon   string  `yaml:"icon"`
	Layout *Layout `yaml:"layout"`
	Items  []Item  `yaml:"items"`
}

type Layout struct {
	Description string             `yaml:"description"`
	Columns     []models.ColumnDef `yaml:"columns"`
}

type Item struct {
	Name        string `yaml:"name"`
	Status      string `yaml:"status"`
	Priority    string `yaml:"priority"`
	Description string `yaml:"description"`
	Tags        string `yaml:"tags"`
	IsNew       bool   `yaml:"is_new"`
}

// Report counts the rows written by Apply.
type Report struct {
	Users      int `json:"users"`
	Layers     int `json:"layers"`
	Categories int `json:"categories"`
	TechItems  int `json:"tech_items"`
}

func (r Report) String() string {
	return fmt.Sprintf("%d users, %d layers, %d categories, %d tech items", r.Users, r.Layers, r.Categories, r.TechItems)
}

// Default returns the embedded catalogue.
func Default() (*Catalogue, error) {
	return Parse(bytes.NewReader(defaultCatalogue))
}

// LoadFile reads a catalogue from a YAML file.
func LoadFile(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalogue: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a catalogue. Unknown keys are rejected.
func Parse(r io.Reader) (*Catalogue, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalogue
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decoding catalogue: empty document")
		}
		return nil, fmt.Errorf("decoding catalogue: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks names, statuses and priorities before anything is written.
func (c *Catalogue) Validate() error {
	if strings.TrimSpace(c.Admin.Username) == "" {
		return errors.New("catalogue: admin username is required")
	}
	for li, layer := range c.Layers {
		if strings.TrimSpace(layer.Name) == "" {
			return fmt.Errorf("catalogue: layer %d has no name", li+1)
		}
		for ci, category := range layer.Categories {
			if strings.TrimSpace(category.Name) == "" {
				return fmt.Errorf("catalogue: layer %q category %d has no name", layer.Name, ci+1)
			}
			for ii, item := range category.Items {
				if strings.TrimSpace(item.Name) == "" {
					return fmt.Errorf("catalogue: category %q item %d has no name", category.Name, ii+1)
				}
				if _, err := models.ParseStatus(item.Status); err != nil {
					return fmt.Errorf("catalogue: item %q: %w", item.Name, err)
				}
				if _, err := models.ParsePriority(item.Priority); err != nil {
					return fmt.Errorf("catalogue: item %q: %w", item.Name, err)
				}
			}
		}
	}
	return nil
}

func (c Category) iconSpec() models.IconSpec {
	if c.Layout != nil {
		return models.LayoutIcon(c.Layout.Description, c.Layout.Columns)
	}
	return models.NamedIcon(c.Icon)
}

// Apply replaces everything in db with the catalogue in one transaction.
// Display orders are 1..N by list position within each parent.
func Apply(ctx context.Context, db database.Database, c *Catalogue) (Report, error) {
	var report Report
	err := db.Transaction(ctx, func(tx database.Database) error {
		report = Report{}
		if err := tx.ClearAll(ctx); err != nil {
			return err
		}

		if err := tx.UserRepo().Add(ctx, &models.User{
			Username: strings.TrimSpace(c.Admin.Username),
			Password: c.Admin.Password,
		}); err != nil {
			return err
		}
		report.Users++

		for li, l := range c.Layers {
			layer := &models.Layer{
				Name:         strings.TrimSpace(l.Name),
				Icon:         strings.TrimSpace(l.Icon),
				DisplayOrder: li + 1,
			}
			if err := tx.LayerRepo().Add(ctx, layer); err != nil {
				return err
			}
			report.Layers++

			for ci, cat := range l.Categories {
				category := &models.Category{
					Name:         strings.TrimSpace(cat.Name),
					Icon:         cat.iconSpec(),
					LayerID:      layer.ID,
					DisplayOrder: ci + 1,
				}
				if err := tx.CategoryRepo().Add(ctx, category); err != nil {
					return err
				}
				report.Categories++

				for ii, it := range cat.Items {
					if err := tx.TechItemRepo().Add(ctx, newTechItem(category.ID, ii+1, it)); err != nil {
						return err
					}
					report.TechItems++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("applying seed catalogue: %w", err)
	}
	return report, nil
}

// newTechItem assumes the item passed Validate.
func newTechItem(categoryID int64, order int, it Item) *models.TechItem {
	status, _ := models.ParseStatus(it.Status)
	priority, _ := models.ParsePriority(it.Priority)
	return &models.TechItem{
		Name:         strings.TrimSpace(it.Name),
		CategoryID:   categoryID,
		Status:       status,
		Priority:     priority,
		IsNew:        it.IsNew,
		Description:  it.Description,
		Tags:         models.NormalizeTags(it.Tags),
		DisplayOrder: order,
	}
}
