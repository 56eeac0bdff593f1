package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/models"
)

// Stats recomputes coverage over all tech items
func (s *CatalogueService) Stats(ctx context.Context) (models.Stats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	active, missing, err := s.db.TechItemRepo().CountByStatus(ctx)
	if err != nil {
		return models.Stats{}, errs.NewDatabaseError("count", "tech items", err)
	}
	return models.ComputeStats(active, missing), nil
}

// Tags counts every tag across all items, most used first
func (s *CatalogueService) Tags(ctx context.Context) ([]models.TagCount, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	items, err := s.db.TechItemRepo().TaggedItems(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tags", err)
	}
	return countTags(items), nil
}

func countTags(items []models.TechItem) []models.TagCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, tag := range item.TagList() {
			counts[tag]++
		}
	}

	out := make([]models.TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, models.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// DeleteTag strips tag from every item carrying it and returns how many
// items changed.
func (s *CatalogueService) DeleteTag(ctx context.Context, tag string) (int, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return 0, errs.NewMissingRequiredFieldError("tag")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	changed := 0
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		items, err := tx.TechItemRepo().TaggedItems(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			if !models.HasTag(item.Tags, tag) {
				continue
			}
			if err := tx.TechItemRepo().UpdateTags(ctx, item.ID, models.RemoveTag(item.Tags, tag)); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, errs.NewTransactionFailedError("delete tag", err)
	}

	s.logger.Info().Str("tag", tag).Int("items", changed).Msg("tag deleted")
	return changed, nil
}

// SolutionView groups the items of a solution category by layout column.
// An item lands in every column whose id is among its tags; items matching
// no column are returned as unassigned.
func (s *CatalogueService) SolutionView(ctx context.Context, categoryID int64) (*models.SolutionView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	category, err := s.db.CategoryRepo().FindByID(ctx, categoryID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "category", err)
	}
	layout, ok := category.Icon.Layout()
	if !ok {
		return nil, errs.NewInvalidFieldError("icon", "category is not a solution layout")
	}

	items, err := s.db.TechItemRepo().FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tech items", err)
	}

	view := &models.SolutionView{
		Category:    *category,
		Description: layout.Description,
		Columns:     make([]models.SolutionColumn, len(layout.Columns)),
		Unassigned:  []models.TechItem{},
	}
	for i, col := range layout.Columns {
		view.Columns[i] = models.SolutionColumn{Column: col, Items: []models.TechItem{}}
	}

	for _, item := range items {
		placed := false
		for i, col := range layout.Columns {
			if models.HasTag(item.Tags, col.ID) {
				view.Columns[i].Items = append(view.Columns[i].Items, item)
				placed = true
			}
		}
		if !placed {
			view.Unassigned = append(view.Unassigned, item)
		}
	}
	return view, nil
}

// Dashboard loads the full authoritative data set, fetching each part concurrently
func (s *CatalogueService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		dash   models.Dashboard
		tagged []models.TechItem
		active int
		miss   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		layers, err := s.db.LayerRepo().FindAll(gctx)
		dash.Layers = layers
		return err
	})
	g.Go(func() error {
		categories, err := s.db.CategoryRepo().FindAll(gctx)
		dash.Categories = categories
		return err
	})
	g.Go(func() error {
		items, err := s.db.TechItemRepo().FindAll(gctx)
		dash.TechItems = items
		return err
	})
	g.Go(func() error {
		var err error
		active, miss, err = s.db.TechItemRepo().CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tagged, err = s.db.TechItemRepo().TaggedItems(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("load", "dashboard", err)
	}

	dash.Stats = models.ComputeStats(active, miss)
	dash.Tags = countTags(tagged)
	return &dash, nil
}
