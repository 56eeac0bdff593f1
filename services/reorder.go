package services

import (
	"context"
	"errors"

	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/ordering"
)

// Reorder persists a whole-scope restamp. The updates must name every row of
// one scope exactly once with display orders 1..N. Validation and writes run
// in one transaction; a failure leaves every row unchanged.
func (s *CatalogueService) Reorder(ctx context.Context, kind models.ScopeKind, updates []models.OrderUpdate) error {
	if kind.Table() == "" {
		return errs.NewInvalidScopeError(string(kind))
	}
	if len(updates) == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		parentID, err := scopeParent(ctx, tx, kind, updates[0].ID)
		if err != nil {
			return err
		}
		ids, err := tx.OrderRepo().IDs(ctx, kind, parentID)
		if err != nil {
			return err
		}
		if err := ordering.ValidateFullScope(kind, ids, updates); err != nil {
			return err
		}
		return tx.OrderRepo().Apply(ctx, kind, updates)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("scope", string(kind)).Int("rows", len(updates)).Msg("reorder failed")
		return asPersistError("reorder "+string(kind), err)
	}

	s.logger.Debug().Str("scope", string(kind)).Int("rows", len(updates)).Msg("scope reordered")
	return nil
}

// Move moves one row of a scope from index from to index to and persists the
// restamp. It returns the writes issued, nil for a no-op.
func (s *CatalogueService) Move(ctx context.Context, kind models.ScopeKind, parentID int64, from, to int) ([]models.OrderUpdate, error) {
	if kind.Table() == "" {
		return nil, errs.NewInvalidScopeError(string(kind))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updates []models.OrderUpdate
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		ids, err := tx.OrderRepo().IDs(ctx, kind, parentID)
		if err != nil {
			return err
		}
		if updates, err = ordering.Move(ids, from, to); err != nil {
			return err
		}
		return tx.OrderRepo().Apply(ctx, kind, updates)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("scope", string(kind)).Int("from", from).Int("to", to).Msg("move failed")
		return nil, asPersistError("move "+string(kind), err)
	}
	return updates, nil
}

// asPersistError keeps request errors raised inside a transaction and turns
// everything else into a transaction failure.
func asPersistError(operation string, err error) error {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return errs.NewTransactionFailedError(operation, err)
}

// scopeParent finds the parent bounding the scope the row id belongs to.
func scopeParent(ctx context.Context, tx database.Database, kind models.ScopeKind, id int64) (int64, error) {
	switch kind {
	case models.ScopeLayer:
		return 0, nil
	case models.ScopeCategory:
		category, err := tx.CategoryRepo().FindByID(ctx, id)
		if err != nil {
			return 0, errs.NewDatabaseError("find", "category", err)
		}
		return category.LayerID, nil
	case models.ScopeTechItem:
		item, err := tx.TechItemRepo().FindByID(ctx, id)
		if err != nil {
			return 0, errs.NewDatabaseError("find", "tech item", err)
		}
		return item.CategoryID, nil
	}
	return 0, errs.NewInvalidScopeError(string(kind))
}
