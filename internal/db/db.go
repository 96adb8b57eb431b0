package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var ErrNotFound = errors.New("record not found")

type PostgresDB struct {
	DB *gorm.DB
}

func NewPostgresDB(dsn string) (*PostgresDB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return &PostgresDB{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresDB{
		DB: db,
	}, nil
}

func (f *PostgresDB) MigrateModels(ctx context.Context, models ...any) error {
	err := f.DB.WithContext(ctx).AutoMigrate(models...)
	if err != nil {
		return fmt.Errorf("failed to migrate table: %w", err)
	}

	return nil
}

func (f *PostgresDB) GetOneBy(ctx context.Context, column string, value any, entity any) error {
	query := fmt.Sprintf("%s = ?", column)
	err := f.DB.WithContext(ctx).Where(query, value).First(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("getting record by %q: %w", column, err)
	}
	return nil
}

func (f *PostgresDB) GetAll(ctx context.Context, entity any) error {
	if err := f.DB.WithContext(ctx).Find(entity).Error; err != nil {
		return fmt.Errorf("getting all records: %w", err)
	}
	return nil
}

// Upsert inserts records, overwriting every column of rows whose primary key
// already exists.
func (f *PostgresDB) Upsert(ctx context.Context, records any) error {
	err := f.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(records).Error
	if err != nil {
		return fmt.Errorf("upsert into table: %w", err)
	}
	return nil
}

func (f *PostgresDB) DeleteBy(ctx context.Context, column string, value any, model any) error {
	query := fmt.Sprintf("%s = ?", column)
	err := f.DB.WithContext(ctx).Where(query, value).Delete(model).Error
	if err != nil {
		return fmt.Errorf("deleting records by %q: %w", column, err)
	}
	return nil
}

// DeleteBefore removes the rows whose time column is older than t and
// reports how many were removed.
func (f *PostgresDB) DeleteBefore(ctx context.Context, column string, t time.Time, model any) (int64, error) {
	query := fmt.Sprintf("%s < ?", column)
	tx := f.DB.WithContext(ctx).Where(query, t).Delete(model)
	if tx.Error != nil {
		return 0, fmt.Errorf("deleting records before %s: %w", t.Format(time.RFC3339), tx.Error)
	}
	return tx.RowsAffected, nil
}

func (f *PostgresDB) Close(_ context.Context) error {
	if f.DB == nil {
		return nil
	}

	sqlDB, err := f.DB.DB()
	if err != nil {
		return fmt.Errorf("get sql db conn: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close sql db conn: %w", err)
	}
	return nil
}
