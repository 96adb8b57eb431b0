package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// DefaultMongoDatabase is used when the connection string names no database.
const DefaultMongoDatabase = "test"

const (
	connectTimeout = 10 * time.Second
	// server error code returned by "create" for an existing collection
	codeNamespaceExists = 48
)

// Collection is a model that knows the collection (or table) it lives in.
type Collection interface {
	TableName() string
}

// Validated is a model that declares a $jsonSchema for its collection.
type Validated interface {
	JSONSchema() bson.M
}

type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewMongoDB opens a single client handle for uri and checks that the
// deployment answers.
func NewMongoDB(ctx context.Context, uri string) (*MongoDB, error) {
	dbName, err := DatabaseName(uri)
	if err != nil {
		return &MongoDB{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return &MongoDB{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return &MongoDB{}, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MongoDB{
		Client: client,
		DB:     client.Database(dbName),
	}, nil
}

// DatabaseName extracts the database from a mongodb:// or mongodb+srv://
// connection string.
func DatabaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("parse connection string: %w", err)
	}

	if cs.Database == "" {
		return DefaultMongoDatabase, nil
	}
	return cs.Database, nil
}

// MigrateModels creates one collection per model. Models that declare a
// JSON schema get it attached as a warn-only validator: mismatching writes
// are logged by the server, never rejected. Collections that already exist
// are left untouched.
func (m *MongoDB) MigrateModels(ctx context.Context, models ...any) error {
	for _, model := range models {
		coll, ok := model.(Collection)
		if !ok {
			return fmt.Errorf("model %T does not name its collection", model)
		}

		opts := options.CreateCollection()
		if v, ok := model.(Validated); ok {
			opts.SetValidator(bson.M{"$jsonSchema": v.JSONSchema()}).
				SetValidationLevel("moderate").
				SetValidationAction("warn")
		}

		err := m.DB.CreateCollection(ctx, coll.TableName(), opts)
		if err != nil && !isNamespaceExists(err) {
			return fmt.Errorf("failed to create collection %q: %w", coll.TableName(), err)
		}
	}

	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}

	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeNamespaceExists
	}
	return false
}
