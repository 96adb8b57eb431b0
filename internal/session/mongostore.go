package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "sessions"

type mongoSession struct {
	Token   string    `bson:"_id"`
	Session []byte    `bson:"session"`
	Expires time.Time `bson:"expires"`
}

// MongoStore keeps sessions in the "sessions" collection and lets the
// server expire them through a TTL index on "expires".
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		coll: db.Collection(mongoCollection),
		now:  time.Now,
	}
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create expires index: %w", err)
	}
	return nil
}

func (s *MongoStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	// the TTL monitor only runs once a minute
	filter := bson.M{
		"_id":     token,
		"expires": bson.M{"$gt": s.now()},
	}

	var doc mongoSession
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find session: %w", err)
	}

	return doc.Session, true, nil
}

func (s *MongoStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"session": b,
			"expires": expiry.UTC(),
		},
	}

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": token}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteCtx(ctx context.Context, token string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": token}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *MongoStore) AllCtx(ctx context.Context) (map[string][]byte, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"expires": bson.M{"$gt": s.now()}})
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}

	var docs []mongoSession
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}

	sessions := make(map[string][]byte, len(docs))
	for _, doc := range docs {
		sessions[doc.Token] = doc.Session
	}
	return sessions, nil
}

func (s *MongoStore) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

func (s *MongoStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

func (s *MongoStore) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}

func (s *MongoStore) All() (map[string][]byte, error) {
	return s.AllCtx(context.Background())
}
