package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/models"
)

// DedupeReport counts what Dedupe merged or removed.
type DedupeReport struct {
	LayersMerged     int `json:"layers_merged"`
	CategoriesMerged int `json:"categories_merged"`
	TechItemsRemoved int `json:"tech_items_removed"`
}

func (r DedupeReport) Changed() bool {
	return r.LayersMerged+r.CategoriesMerged+r.TechItemsRemoved > 0
}

// Dedupe merges layers sharing a name and categories sharing (name, layer)
// into the row with the lowest id, re-pointing children first. Tech items
// sharing (name, category) are then reduced to the lowest id. Every touched
// scope is restamped. The whole cleanup is one transaction.
func (d Database) Dedupe(ctx context.Context) (DedupeReport, error) {
	var report DedupeReport
	err := d.Transaction(ctx, func(tx Database) error {
		layers, err := tx.LayerRepo().FindAll(ctx)
		if err != nil {
			return err
		}
		for keep, dups := range duplicateGroups(layers, func(l models.Layer) (string, int64) { return l.Name, l.ID }) {
			for _, dup := range dups {
				if err := tx.db.Model(&models.Category{}).Where("layer_id = ?", dup).Update("layer_id", keep).Error; err != nil {
					return fmt.Errorf("re-pointing categories of layer %d: %w", dup, err)
				}
				if err := tx.LayerRepo().Delete(ctx, dup); err != nil {
					return err
				}
				report.LayersMerged++
			}
		}

		categories, err := tx.CategoryRepo().FindAll(ctx)
		if err != nil {
			return err
		}
		categoryKey := func(c models.Category) (string, int64) {
			return fmt.Sprintf("%d\x00%s", c.LayerID, c.Name), c.ID
		}
		for keep, dups := range duplicateGroups(categories, categoryKey) {
			for _, dup := range dups {
				if err := tx.db.Model(&models.TechItem{}).Where("category_id = ?", dup).Update("category_id", keep).Error; err != nil {
					return fmt.Errorf("re-pointing tech items of category %d: %w", dup, err)
				}
				if err := tx.CategoryRepo().Delete(ctx, dup); err != nil {
					return err
				}
				report.CategoriesMerged++
			}
		}

		items, err := tx.TechItemRepo().FindAll(ctx)
		if err != nil {
			return err
		}
		itemKey := func(t models.TechItem) (string, int64) {
			return fmt.Sprintf("%d\x00%s", t.CategoryID, t.Name), t.ID
		}
		for _, dups := range duplicateGroups(items, itemKey) {
			for _, dup := range dups {
				if err := tx.TechItemRepo().Delete(ctx, dup); err != nil {
					return err
				}
				report.TechItemsRemoved++
			}
		}

		if !report.Changed() {
			return nil
		}
		return restampAll(ctx, tx)
	})
	if err != nil {
		return DedupeReport{}, fmt.Errorf("removing duplicates: %w", err)
	}

	log.Info().
		Int("layersMerged", report.LayersMerged).
		Int("categoriesMerged", report.CategoriesMerged).
		Int("techItemsRemoved", report.TechItemsRemoved).
		Msg("duplicate cleanup finished")
	return report, nil
}

// duplicateGroups maps the lowest id of every key that occurs more than once
// to the other ids carrying that key.
func duplicateGroups[T any](rows []T, key func(T) (string, int64)) map[int64][]int64 {
	lowest := make(map[string]int64)
	for _, row := range rows {
		k, id := key(row)
		if cur, ok := lowest[k]; !ok || id < cur {
			lowest[k] = id
		}
	}

	groups := make(map[int64][]int64)
	for _, row := range rows {
		k, id := key(row)
		if keep := lowest[k]; id != keep {
			groups[keep] = append(groups[keep], id)
		}
	}
	return groups
}

func restampAll(ctx context.Context, tx Database) error {
	if err := tx.OrderRepo().Restamp(ctx, models.ScopeLayer, 0); err != nil {
		return err
	}
	layerIDs, err := tx.LayerRepo().IDs(ctx)
	if err != nil {
		return err
	}
	for _, layerID := range layerIDs {
		if err := tx.OrderRepo().Restamp(ctx, models.ScopeCategory, layerID); err != nil {
			return err
		}
		categoryIDs, err := tx.CategoryRepo().IDsInLayer(ctx, layerID)
		if err != nil {
			return err
		}
		for _, categoryID := range categoryIDs {
			if err := tx.OrderRepo().Restamp(ctx, models.ScopeTechItem, categoryID); err != nil {
				return err
			}
		}
	}
	return nil
}
