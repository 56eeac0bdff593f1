package database

import (
	"context"
	"fmt"

	"github.com/tutusiji/lantu-next/models"
)

// DeleteReport counts the rows a cascading delete removed.
type DeleteReport struct {
	Layers     int64 `json:"layers"`
	Categories int64 `json:"categories"`
	TechItems  int64 `json:"tech_items"`
}

// DeleteLayer removes a layer with its categories and their tech items, then
// restamps the remaining layers. All of it happens in one transaction.
func (d Database) DeleteLayer(ctx context.Context, id int64) (DeleteReport, error) {
	var report DeleteReport
	err := d.Transaction(ctx, func(tx Database) error {
		categoryIDs, err := tx.CategoryRepo().IDsInLayer(ctx, id)
		if err != nil {
			return err
		}
		if report.TechItems, err = tx.TechItemRepo().DeleteByCategories(ctx, categoryIDs...); err != nil {
			return err
		}
		if report.Categories, err = tx.CategoryRepo().DeleteByLayer(ctx, id); err != nil {
			return err
		}
		if err := tx.LayerRepo().Delete(ctx, id); err != nil {
			return err
		}
		report.Layers = 1
		return tx.OrderRepo().Restamp(ctx, models.ScopeLayer, 0)
	})
	if err != nil {
		return DeleteReport{}, fmt.Errorf("cascading delete of layer %d: %w", id, err)
	}
	return report, nil
}

// DeleteCategory removes a category with its tech items, then restamps the
// categories left in its layer.
func (d Database) DeleteCategory(ctx context.Context, id int64) (DeleteReport, error) {
	var report DeleteReport
	err := d.Transaction(ctx, func(tx Database) error {
		category, err := tx.CategoryRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if report.TechItems, err = tx.TechItemRepo().DeleteByCategories(ctx, id); err != nil {
			return err
		}
		if err := tx.CategoryRepo().Delete(ctx, id); err != nil {
			return err
		}
		report.Categories = 1
		return tx.OrderRepo().Restamp(ctx, models.ScopeCategory, category.LayerID)
	})
	if err != nil {
		return DeleteReport{}, fmt.Errorf("cascading delete of category %d: %w", id, err)
	}
	return report, nil
}

// DeleteTechItem removes one item and restamps its category.
func (d Database) DeleteTechItem(ctx context.Context, id int64) error {
	err := d.Transaction(ctx, func(tx Database) error {
		item, err := tx.TechItemRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.TechItemRepo().Delete(ctx, id); err != nil {
			return err
		}
		return tx.OrderRepo().Restamp(ctx, models.ScopeTechItem, item.CategoryID)
	})
	if err != nil {
		return fmt.Errorf("deleting tech item %d: %w", id, err)
	}
	return nil
}
