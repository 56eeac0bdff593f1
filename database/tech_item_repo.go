package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tutusiji/lantu-next/models"
)

type TechItemRepo struct {
	db *gorm.DB
}

func NewTechItemRepo(db *gorm.DB) *TechItemRepo {
	return &TechItemRepo{db}
}

func (r *TechItemRepo) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("category_id ASC, display_order ASC, id ASC")
}

// FindAll returns all tech items ordered by category, then display_order
func (r *TechItemRepo) FindAll(ctx context.Context) ([]models.TechItem, error) {
	var items []models.TechItem
	if err := r.ordered(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("listing tech items: %w", err)
	}
	return items, nil
}

// FindByStatus returns the tech items with the given status
func (r *TechItemRepo) FindByStatus(ctx context.Context, status models.Status) ([]models.TechItem, error) {
	var items []models.TechItem
	if err := r.ordered(ctx).Where("status = ?", status).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("listing %s tech items: %w", status, err)
	}
	return items, nil
}

// FindByTag returns the tech items carrying tag as a whole token
func (r *TechItemRepo) FindByTag(ctx context.Context, tag string) ([]models.TechItem, error) {
	var candidates []models.TechItem
	err := r.ordered(ctx).
		Where("tags LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.TrimSpace(tag))+"%").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("listing tech items tagged %q: %w", tag, err)
	}

	items := make([]models.TechItem, 0, len(candidates))
	for _, item := range candidates {
		if models.HasTag(item.Tags, tag) {
			items = append(items, item)
		}
	}
	return items, nil
}

// FindByCategory returns the tech items of one category in display order
func (r *TechItemRepo) FindByCategory(ctx context.Context, categoryID int64) ([]models.TechItem, error) {
	var items []models.TechItem
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("display_order ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("listing tech items of category %d: %w", categoryID, err)
	}
	return items, nil
}

// FindByID returns a tech item by its ID
func (r *TechItemRepo) FindByID(ctx context.Context, id int64) (*models.TechItem, error) {
	var item models.TechItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, fmt.Errorf("finding tech item %d: %w", id, err)
	}
	return &item, nil
}

// Add inserts a new tech item into the database
func (r *TechItemRepo) Add(ctx context.Context, item *models.TechItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("inserting tech item: %w", err)
	}
	return nil
}

// Update writes every column of an existing tech item
func (r *TechItemRepo) Update(ctx context.Context, item *models.TechItem) error {
	res := r.db.WithContext(ctx).
		Model(&models.TechItem{ID: item.ID}).
		Select("name", "category_id", "status", "priority", "is_new", "description", "tags", "display_order").
		Updates(item)
	if res.Error != nil {
		return fmt.Errorf("updating tech item %d: %w", item.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("updating tech item %d: %w", item.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateTags replaces the stored tag string of one item
func (r *TechItemRepo) UpdateTags(ctx context.Context, id int64, tags string) error {
	res := r.db.WithContext(ctx).Model(&models.TechItem{}).Where("id = ?", id).Update("tags", tags)
	if res.Error != nil {
		return fmt.Errorf("updating tags of tech item %d: %w", id, res.Error)
	}
	return nil
}

// Delete removes a tech item by id
func (r *TechItemRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.TechItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting tech item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deleting tech item %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteByCategories removes every tech item of the given categories
func (r *TechItemRepo) DeleteByCategories(ctx context.Context, categoryIDs ...int64) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("category_id IN ?", categoryIDs).Delete(&models.TechItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting tech items of categories %v: %w", categoryIDs, res.Error)
	}
	return res.RowsAffected, nil
}

// IDsInCategory returns the tech item ids of one category in display order
func (r *TechItemRepo) IDsInCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	return scopeIDs(ctx, r.db, models.ScopeTechItem, categoryID)
}

// NextDisplayOrder is the display order a new item of the category is appended with
func (r *TechItemRepo) NextDisplayOrder(ctx context.Context, categoryID int64) (int, error) {
	return nextDisplayOrder(ctx, r.db, models.ScopeTechItem, categoryID)
}

// CountByStatus counts active and missing items in one query
func (r *TechItemRepo) CountByStatus(ctx context.Context) (active, missing int, err error) {
	var rows []struct {
		Status models.Status
		Count  int
	}
	err = r.db.WithContext(ctx).
		Model(&models.TechItem{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, fmt.Errorf("counting tech items by status: %w", err)
	}

	for _, row := range rows {
		switch row.Status {
		case models.StatusActive:
			active = row.Count
		case models.StatusMissing:
			missing = row.Count
		}
	}
	return active, missing, nil
}

// TaggedItems returns id and tag string of every item with at least one tag
func (r *TechItemRepo) TaggedItems(ctx context.Context) ([]models.TechItem, error) {
	var items []models.TechItem
	err := r.db.WithContext(ctx).
		Select("id", "tags").
		Where("tags <> ''").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("listing tagged tech items: %w", err)
	}
	return items, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
