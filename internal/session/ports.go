package session

import (
	"context"
	"time"

	"github.com/alexedwards/scs/v2"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate -o fake -fake-name RecordStore . RecordStore
type RecordStore interface {
	MigrateModels(ctx context.Context, models ...any) error
	GetOneBy(ctx context.Context, column string, value any, entity any) error
	GetAll(ctx context.Context, entity any) error
	Upsert(ctx context.Context, records any) error
	DeleteBy(ctx context.Context, column string, value any, model any) error
	DeleteBefore(ctx context.Context, column string, t time.Time, model any) (int64, error)
}

var (
	_ scs.IterableCtxStore = (*MongoStore)(nil)
	_ scs.IterableCtxStore = (*RedisStore)(nil)
	_ scs.IterableCtxStore = (*GormStore)(nil)
	_ scs.CtxStore         = (*MongoStore)(nil)
	_ scs.CtxStore         = (*RedisStore)(nil)
	_ scs.CtxStore         = (*GormStore)(nil)
)
