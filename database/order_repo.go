package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/ordering"
)

// OrderRepo writes display orders for the three ordered scopes.
type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db}
}

// Apply writes all updates in one transaction, one UPDATE per row. A failure
// on any row, including a row that no longer exists, rolls back every write.
func (r *OrderRepo) Apply(ctx context.Context, kind models.ScopeKind, updates []models.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	table := kind.Table()
	if table == "" {
		return fmt.Errorf("applying order: unknown scope %q", kind)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyOrder(tx, table, updates)
	})
}

// Restamp rewrites the scope's display orders as 1..N, keeping the current order.
func (r *OrderRepo) Restamp(ctx context.Context, kind models.ScopeKind, parentID int64) error {
	ids, err := scopeIDs(ctx, r.db, kind, parentID)
	if err != nil {
		return err
	}
	return r.Apply(ctx, kind, ordering.Restamp(ids))
}

// IDs returns the ids of one scope in display order. parentID is ignored for layers.
func (r *OrderRepo) IDs(ctx context.Context, kind models.ScopeKind, parentID int64) ([]int64, error) {
	return scopeIDs(ctx, r.db, kind, parentID)
}

func applyOrder(tx *gorm.DB, table string, updates []models.OrderUpdate) error {
	for _, u := range updates {
		res := tx.Table(table).Where("id = ?", u.ID).Update("display_order", u.DisplayOrder)
		if res.Error != nil {
			return fmt.Errorf("updating display order of %s %d: %w", table, u.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("updating display order of %s %d: %w", table, u.ID, gorm.ErrRecordNotFound)
		}
	}
	return nil
}

func scopeQuery(ctx context.Context, db *gorm.DB, kind models.ScopeKind, parentID int64) (*gorm.DB, error) {
	table := kind.Table()
	if table == "" {
		return nil, fmt.Errorf("unknown scope %q", kind)
	}
	q := db.WithContext(ctx).Table(table)
	if col := kind.ParentColumn(); col != "" {
		q = q.Where(col+" = ?", parentID)
	}
	return q, nil
}

func scopeIDs(ctx context.Context, db *gorm.DB, kind models.ScopeKind, parentID int64) ([]int64, error) {
	q, err := scopeQuery(ctx, db, kind, parentID)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := q.Order("display_order ASC, id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("listing %s ids: %w", kind, err)
	}
	return ids, nil
}

func nextDisplayOrder(ctx context.Context, db *gorm.DB, kind models.ScopeKind, parentID int64) (int, error) {
	q, err := scopeQuery(ctx, db, kind, parentID)
	if err != nil {
		return 0, err
	}
	var max int
	if err := q.Select("COALESCE(MAX(display_order), 0)").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("reading max %s display order: %w", kind, err)
	}
	return max + 1, nil
}
