package session

import (
	"authboiler/internal/db"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Record is a session row.
type Record struct {
	Token  string    `gorm:"primaryKey;size:64"`
	Data   []byte    `gorm:"not null"`
	Expiry time.Time `gorm:"not null;index"`
}

func (Record) TableName() string {
	return "sessions"
}

// GormStore keeps sessions in a relational table. Expired rows are skipped
// on read and removed by Cleanup.
type GormStore struct {
	logs *zap.SugaredLogger
	db   RecordStore
	now  func() time.Time
}

func NewGormStore(logger *zap.SugaredLogger, db RecordStore) *GormStore {
	return &GormStore{
		logs: logger,
		db:   db,
		now:  time.Now,
	}
}

func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.MigrateModels(ctx, &Record{}); err != nil {
		return fmt.Errorf("migrate sessions table: %w", err)
	}
	return nil
}

func (s *GormStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	var record Record
	err := s.db.GetOneBy(ctx, "token", token, &record)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find session: %w", err)
	}

	if !record.Expiry.After(s.now()) {
		return nil, false, nil
	}
	return record.Data, true, nil
}

func (s *GormStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	record := &Record{
		Token:  token,
		Data:   b,
		Expiry: expiry.UTC(),
	}
	if err := s.db.Upsert(ctx, record); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteCtx(ctx context.Context, token string) error {
	if err := s.db.DeleteBy(ctx, "token", token, &Record{}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *GormStore) AllCtx(ctx context.Context) (map[string][]byte, error) {
	var records []Record
	if err := s.db.GetAll(ctx, &records); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	now := s.now()
	sessions := make(map[string][]byte, len(records))
	for _, record := range records {
		if record.Expiry.After(now) {
			sessions[record.Token] = record.Data
		}
	}
	return sessions, nil
}

// Cleanup deletes every expired row once.
func (s *GormStore) Cleanup(ctx context.Context) error {
	deleted, err := s.db.DeleteBefore(ctx, "expiry", s.now(), &Record{})
	if err != nil {
		return fmt.Errorf("cleanup expired sessions: %w", err)
	}

	if deleted > 0 {
		s.logs.Infow("expired sessions removed", "count", deleted)
	}
	return nil
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (s *GormStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Cleanup(ctx); err != nil {
					s.logs.Errorw("session cleanup failed", "error", err)
				}
			}
		}
	}()
}

func (s *GormStore) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

func (s *GormStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

func (s *GormStore) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}

func (s *GormStore) All() (map[string][]byte, error) {
	return s.AllCtx(context.Background())
}
