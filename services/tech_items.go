package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/models"
)

// Tech item filters besides a tag name
const (
	FilterAll     = "all"
	FilterActive  = "active"
	FilterMissing = "missing"
)

// ListTechItems returns items ordered by (category_id, display_order). The
// filter is all, active, missing, or a tag matched as a whole token.
func (s *CatalogueService) ListTechItems(ctx context.Context, filter string) ([]models.TechItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		items []models.TechItem
		err   error
	)
	switch f := strings.TrimSpace(filter); f {
	case "", FilterAll:
		items, err = s.db.TechItemRepo().FindAll(ctx)
	case FilterActive:
		items, err = s.db.TechItemRepo().FindByStatus(ctx, models.StatusActive)
	case FilterMissing:
		items, err = s.db.TechItemRepo().FindByStatus(ctx, models.StatusMissing)
	default:
		items, err = s.db.TechItemRepo().FindByTag(ctx, f)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tech items", err)
	}
	return items, nil
}

func requireCategory(ctx context.Context, tx database.Database, categoryID int64) error {
	if categoryID <= 0 {
		return errs.NewMissingRequiredFieldError("category_id")
	}
	ok, err := tx.CategoryRepo().Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewInvalidFieldError("category_id", fmt.Sprintf("category %d does not exist", categoryID))
	}
	return nil
}

func parseStatus(raw string) (models.Status, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errs.NewMissingRequiredFieldError("status")
	}
	status, err := models.ParseStatus(raw)
	if err != nil {
		return "", errs.NewInvalidFieldError("status", err.Error())
	}
	return status, nil
}

func parsePriority(raw string) (models.Priority, error) {
	priority, err := models.ParsePriority(raw)
	if err != nil {
		return "", errs.NewInvalidFieldError("priority", err.Error())
	}
	return priority, nil
}

// CreateTechItem validates and appends a new item to its category
func (s *CatalogueService) CreateTechItem(ctx context.Context, req CreateTechItemRequest) (*models.TechItem, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}

	item := &models.TechItem{
		Name:        name,
		CategoryID:  req.CategoryID,
		Status:      status,
		Priority:    priority,
		IsNew:       req.IsNew,
		Description: strings.TrimSpace(req.Description),
		Tags:        models.NormalizeTags(req.Tags),
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.db.Transaction(ctx, func(tx database.Database) error {
		if err := requireCategory(ctx, tx, req.CategoryID); err != nil {
			return err
		}
		next, err := tx.TechItemRepo().NextDisplayOrder(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		item.DisplayOrder = next
		return tx.TechItemRepo().Add(ctx, item)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", "tech item", err)
	}
	return item, nil
}

// UpdateTechItem applies the set fields of req. Moving to another category
// appends the item there and restamps the category it left.
func (s *CatalogueService) UpdateTechItem(ctx context.Context, id int64, req UpdateTechItemRequest) (*models.TechItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var item *models.TechItem
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		if item, err = tx.TechItemRepo().FindByID(ctx, id); err != nil {
			return err
		}
		if err := applyTechItemPatch(item, req); err != nil {
			return err
		}

		oldCategory := item.CategoryID
		if req.CategoryID != nil && *req.CategoryID != oldCategory {
			if err := requireCategory(ctx, tx, *req.CategoryID); err != nil {
				return err
			}
			item.CategoryID = *req.CategoryID
			if item.DisplayOrder, err = tx.TechItemRepo().NextDisplayOrder(ctx, item.CategoryID); err != nil {
				return err
			}
		}

		if err := tx.TechItemRepo().Update(ctx, item); err != nil {
			return err
		}
		if item.CategoryID != oldCategory {
			return tx.OrderRepo().Restamp(ctx, models.ScopeTechItem, oldCategory)
		}
		return nil
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "tech item", err)
	}
	return item, nil
}

func applyTechItemPatch(item *models.TechItem, req UpdateTechItemRequest) error {
	var err error
	if req.Name != nil {
		if item.Name, err = requireName(*req.Name); err != nil {
			return err
		}
	}
	if req.Status != nil {
		if item.Status, err = parseStatus(*req.Status); err != nil {
			return err
		}
	}
	if req.Priority != nil {
		if item.Priority, err = parsePriority(*req.Priority); err != nil {
			return err
		}
	}
	if req.IsNew != nil {
		item.IsNew = *req.IsNew
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Tags != nil {
		item.Tags = models.NormalizeTags(*req.Tags)
	}
	return nil
}

// DeleteTechItem removes one item
func (s *CatalogueService) DeleteTechItem(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.DeleteTechItem(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "tech item", err)
	}
	return nil
}
