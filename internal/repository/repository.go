package repository

import (
	"context"
	"fmt"
)

type UserRepository struct {
	db Database
}

func NewUserRepository(db Database) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// RegisterSchema declares the user collection with the underlying store.
func (r *UserRepository) RegisterSchema(ctx context.Context) error {
	err := r.db.MigrateModels(ctx, &User{})
	if err != nil {
		return fmt.Errorf("register user schema: %w", err)
	}

	return nil
}
