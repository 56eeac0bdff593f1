package services

import (
	"context"
	"fmt"

	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/models"
)

// ListCategories returns all categories ordered by (layer_id, display_order)
func (s *CatalogueService) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	categories, err := s.db.CategoryRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "categories", err)
	}
	return categories, nil
}

func requireLayer(ctx context.Context, tx database.Database, layerID int64) error {
	if layerID <= 0 {
		return errs.NewMissingRequiredFieldError("layer_id")
	}
	ok, err := tx.LayerRepo().Exists(ctx, layerID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewInvalidFieldError("layer_id", fmt.Sprintf("layer %d does not exist", layerID))
	}
	return nil
}

// CreateCategory appends a new category to its layer
func (s *CatalogueService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	category := &models.Category{Name: name, Icon: req.Icon, LayerID: req.LayerID}
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		if err := requireLayer(ctx, tx, req.LayerID); err != nil {
			return err
		}
		next, err := tx.CategoryRepo().NextDisplayOrder(ctx, req.LayerID)
		if err != nil {
			return err
		}
		category.DisplayOrder = next
		return tx.CategoryRepo().Add(ctx, category)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", "category", err)
	}

	s.logger.Info().
		Int64("categoryID", category.ID).
		Int64("layerID", category.LayerID).
		Bool("solution", category.IsSolution()).
		Msg("category created")
	return category, nil
}

// UpdateCategory applies the set fields of req. Moving to another layer
// appends the category there and restamps the layer it left.
func (s *CatalogueService) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var category *models.Category
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		if category, err = tx.CategoryRepo().FindByID(ctx, id); err != nil {
			return err
		}

		if req.Name != nil {
			if category.Name, err = requireName(*req.Name); err != nil {
				return err
			}
		}
		if req.Icon != nil {
			category.Icon = *req.Icon
		}

		oldLayer := category.LayerID
		if req.LayerID != nil && *req.LayerID != oldLayer {
			if err := requireLayer(ctx, tx, *req.LayerID); err != nil {
				return err
			}
			category.LayerID = *req.LayerID
			if category.DisplayOrder, err = tx.CategoryRepo().NextDisplayOrder(ctx, category.LayerID); err != nil {
				return err
			}
		}

		if err := tx.CategoryRepo().Update(ctx, category); err != nil {
			return err
		}
		if category.LayerID != oldLayer {
			return tx.OrderRepo().Restamp(ctx, models.ScopeCategory, oldLayer)
		}
		return nil
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "category", err)
	}
	return category, nil
}

// DeleteCategory removes the category and its tech items
func (s *CatalogueService) DeleteCategory(ctx context.Context, id int64) (database.DeleteReport, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	report, err := s.db.DeleteCategory(ctx, id)
	if err != nil {
		return database.DeleteReport{}, errs.NewDatabaseError("delete", "category", err)
	}

	s.logger.Info().Int64("categoryID", id).Int64("techItems", report.TechItems).Msg("category deleted")
	return report, nil
}
