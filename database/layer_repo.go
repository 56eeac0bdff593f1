package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tutusiji/lantu-next/models"
)

type LayerRepo struct {
	db *gorm.DB
}

func NewLayerRepo(db *gorm.DB) *LayerRepo {
	return &LayerRepo{db}
}

// FindAll returns all layers ordered by display_order
func (r *LayerRepo) FindAll(ctx context.Context) ([]models.Layer, error) {
	var layers []models.Layer
	if err := r.db.WithContext(ctx).Order("display_order ASC, id ASC").Find(&layers).Error; err != nil {
		return nil, fmt.Errorf("listing layers: %w", err)
	}
	return layers, nil
}

// FindByID returns a layer by its ID
func (r *LayerRepo) FindByID(ctx context.Context, id int64) (*models.Layer, error) {
	var layer models.Layer
	if err := r.db.WithContext(ctx).First(&layer, id).Error; err != nil {
		return nil, fmt.Errorf("finding layer %d: %w", id, err)
	}
	return &layer, nil
}

// Exists reports whether a layer with the id exists
func (r *LayerRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Layer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking layer %d: %w", id, err)
	}
	return count > 0, nil
}

// Add inserts a new layer into the database
func (r *LayerRepo) Add(ctx context.Context, layer *models.Layer) error {
	if err := r.db.WithContext(ctx).Create(layer).Error; err != nil {
		return fmt.Errorf("inserting layer: %w", err)
	}
	return nil
}

// Update writes every column of an existing layer
func (r *LayerRepo) Update(ctx context.Context, layer *models.Layer) error {
	res := r.db.WithContext(ctx).
		Model(&models.Layer{ID: layer.ID}).
		Select("name", "icon", "display_order").
		Updates(layer)
	if res.Error != nil {
		return fmt.Errorf("updating layer %d: %w", layer.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("updating layer %d: %w", layer.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes a layer row by id. Children are handled by DeleteLayer.
func (r *LayerRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Layer{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting layer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deleting layer %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// IDs returns the layer ids in display order
func (r *LayerRepo) IDs(ctx context.Context) ([]int64, error) {
	return scopeIDs(ctx, r.db, models.ScopeLayer, 0)
}

// NextDisplayOrder is the display order a new layer is appended with
func (r *LayerRepo) NextDisplayOrder(ctx context.Context) (int, error) {
	return nextDisplayOrder(ctx, r.db, models.ScopeLayer, 0)
}

func (r *LayerRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Layer{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting layers: %w", err)
	}
	return count, nil
}
