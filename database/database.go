package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tutusiji/lantu-next/models"
)

type Database struct {
	db           *gorm.DB
	layerRepo    *LayerRepo
	categoryRepo *CategoryRepo
	techItemRepo *TechItemRepo
	userRepo     *UserRepo
	orderRepo    *OrderRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		layerRepo:    NewLayerRepo(db),
		categoryRepo: NewCategoryRepo(db),
		techItemRepo: NewTechItemRepo(db),
		userRepo:     NewUserRepo(db),
		orderRepo:    NewOrderRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) LayerRepo() *LayerRepo {
	return d.layerRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TechItemRepo() *TechItemRepo {
	return d.techItemRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) OrderRepo() *OrderRepo {
	return d.orderRepo
}

// GetDB returns the underlying database connection
func (d Database) GetDB() *gorm.DB {
	return d.db
}

// Transaction runs fn with repositories bound to a single transaction. Any
// error or panic in fn rolls the whole transaction back. Inside fn every query
// must go through tx.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// ClearAll deletes every row of every table.
func (d Database) ClearAll(ctx context.Context) error {
	return d.Transaction(ctx, func(tx Database) error {
		for _, table := range []string{"tech_items", "categories", "layers", "users"} {
			if err := tx.db.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		return nil
	})
}
