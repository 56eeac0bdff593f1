package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tutusiji/lantu-next/models"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// FindAll returns all categories ordered by layer, then display_order
func (r *CategoryRepo) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Order("layer_id ASC, display_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// FindByLayer returns the categories of one layer in display order
func (r *CategoryRepo) FindByLayer(ctx context.Context, layerID int64) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("layer_id = ?", layerID).
		Order("display_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("listing categories of layer %d: %w", layerID, err)
	}
	return categories, nil
}

// FindByID returns a category by its ID
func (r *CategoryRepo) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, fmt.Errorf("finding category %d: %w", id, err)
	}
	return &category, nil
}

// Exists reports whether a category with the id exists
func (r *CategoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking category %d: %w", id, err)
	}
	return count > 0, nil
}

// Add inserts a new category into the database
func (r *CategoryRepo) Add(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Omit("TechItems").Create(category).Error; err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

// Update writes every column of an existing category
func (r *CategoryRepo) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).
		Model(&models.Category{ID: category.ID}).
		Select("name", "icon", "layer_id", "display_order").
		Updates(category)
	if res.Error != nil {
		return fmt.Errorf("updating category %d: %w", category.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("updating category %d: %w", category.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes a category row by id. Children are handled by DeleteCategory.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting category %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deleting category %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteByLayer removes every category of a layer and returns how many went
func (r *CategoryRepo) DeleteByLayer(ctx context.Context, layerID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("layer_id = ?", layerID).Delete(&models.Category{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting categories of layer %d: %w", layerID, res.Error)
	}
	return res.RowsAffected, nil
}

// IDsInLayer returns the category ids of one layer in display order
func (r *CategoryRepo) IDsInLayer(ctx context.Context, layerID int64) ([]int64, error) {
	return scopeIDs(ctx, r.db, models.ScopeCategory, layerID)
}

// NextDisplayOrder is the display order a new category of the layer is appended with
func (r *CategoryRepo) NextDisplayOrder(ctx context.Context, layerID int64) (int, error) {
	return nextDisplayOrder(ctx, r.db, models.ScopeCategory, layerID)
}

func (r *CategoryRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting categories: %w", err)
	}
	return count, nil
}
