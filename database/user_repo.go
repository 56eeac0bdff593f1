package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tutusiji/lantu-next/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByUsername returns the user with the exact username
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &user, nil
}

// Add inserts a new user into the database
func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}
