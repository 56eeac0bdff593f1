package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/database"
	"github.com/tutusiji/lantu-next/errs"
	"github.com/tutusiji/lantu-next/models"
)

const DefaultStoreTimeout = 5 * time.Second

// CatalogueService owns validation, ordering and cascade rules for layers,
// categories and tech items. Every store round-trip is bounded by the store
// timeout; store errors leave as *errs.ApiErr.
type CatalogueService struct {
	db           database.Database
	logger       zerolog.Logger
	storeTimeout time.Duration
}

func NewCatalogueService(db database.Database, storeTimeout time.Duration) *CatalogueService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &CatalogueService{
		db:           db,
		logger:       log.With().Str("component", "catalogueService").Logger(),
		storeTimeout: storeTimeout,
	}
}

func (s *CatalogueService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.NewMissingRequiredFieldError("name")
	}
	return name, nil
}

// ListLayers returns all layers ordered by display_order
func (s *CatalogueService) ListLayers(ctx context.Context) ([]models.Layer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	layers, err := s.db.LayerRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "layers", err)
	}
	return layers, nil
}

// CreateLayer appends a new layer after the existing ones
func (s *CatalogueService) CreateLayer(ctx context.Context, req CreateLayerRequest) (*models.Layer, error) {
	name, err := requireName(req.Name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	layer := &models.Layer{Name: name, Icon: strings.TrimSpace(req.Icon)}
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		next, err := tx.LayerRepo().NextDisplayOrder(ctx)
		if err != nil {
			return err
		}
		layer.DisplayOrder = next
		return tx.LayerRepo().Add(ctx, layer)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", "layer", err)
	}

	s.logger.Info().Int64("layerID", layer.ID).Str("name", layer.Name).Msg("layer created")
	return layer, nil
}

// UpdateLayer applies the set fields of req to layer id
func (s *CatalogueService) UpdateLayer(ctx context.Context, id int64, req UpdateLayerRequest) (*models.Layer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	layer, err := s.db.LayerRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "layer", err)
	}

	if req.Name != nil {
		if layer.Name, err = requireName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Icon != nil {
		layer.Icon = strings.TrimSpace(*req.Icon)
	}

	if err := s.db.LayerRepo().Update(ctx, layer); err != nil {
		return nil, errs.NewDatabaseError("update", "layer", err)
	}
	return layer, nil
}

// DeleteLayer removes the layer with every category and tech item under it
func (s *CatalogueService) DeleteLayer(ctx context.Context, id int64) (database.DeleteReport, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	report, err := s.db.DeleteLayer(ctx, id)
	if err != nil {
		return database.DeleteReport{}, errs.NewDatabaseError("delete", "layer", err)
	}

	s.logger.Info().
		Int64("layerID", id).
		Int64("categories", report.Categories).
		Int64("techItems", report.TechItems).
		Msg("layer deleted")
	return report, nil
}
