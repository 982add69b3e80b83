package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// MongoStore maps each portfolio collection onto a MongoDB collection of the
// same name. Bulk inserts get ObjectIDs, named documents use their string id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger logger.Logger
}

func NewMongoClient(ctx context.Context, cfg config.Config, log logger.Logger) (*mongo.Client, error) {
	if cfg.Mongo.URI == "" {
		return nil, errors.New("mongo uri is required")
	}

	if cfg.Store.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Store.Timeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("do not create mongo client: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo failed: %w", err)
	}

	log.Info("Connect MongoDB successfully.", zap.String("database", cfg.Mongo.Database))
	return client, nil
}

func NewMongoStore(client *mongo.Client, database string, log logger.Logger) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database), logger: log}
}

func (s *MongoStore) ListDocuments(ctx context.Context, collection string) ([]content.Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, apperror.NewInternal("failed to list documents", err)
	}
	defer cursor.Close(ctx)

	docs := make([]content.Document, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, apperror.NewInternal("failed to decode document", err)
		}
		docs = append(docs, toDocument(collection, raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating documents", err)
	}
	return docs, nil
}

func (s *MongoStore) GetDocument(ctx context.Context, collection, id string) (content.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": mongoID(id)}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return content.Document{}, apperror.NewNotFound("document", collection+"/"+id)
		}
		return content.Document{}, apperror.NewInternal("failed to get document", err)
	}
	return toDocument(collection, raw), nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, doc content.Document) error {
	res, err := s.db.Collection(doc.Collection).DeleteOne(ctx, bson.M{"_id": mongoID(doc.ID)})
	if err != nil {
		return apperror.NewInternal("failed to delete document", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFound("document", doc.Path())
	}
	return nil
}

func (s *MongoStore) InsertDocument(ctx context.Context, collection string, record content.Record) (content.Document, error) {
	data := withoutID(record)
	res, err := s.db.Collection(collection).InsertOne(ctx, bson.M(data))
	if err != nil {
		return content.Document{}, apperror.NewInternal("failed to insert document", err)
	}
	return content.Document{Collection: collection, ID: idString(res.InsertedID), Data: data}, nil
}

func (s *MongoStore) PutNamedDocument(ctx context.Context, path string, record content.Record) error {
	collection, id, err := content.SplitPath(path)
	if err != nil {
		return apperror.NewInvalidInput(err.Error(), err)
	}

	_, err = s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": mongoID(id)},
		bson.M(withoutID(record)),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return apperror.NewInternal("failed to upsert document", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Warn("Failed to disconnect MongoDB", zap.Error(err))
	}
}

func toDocument(collection string, raw bson.M) content.Document {
	id := idString(raw["_id"])
	delete(raw, "_id")
	return content.Document{Collection: collection, ID: id, Data: content.Record(raw)}
}

func withoutID(record content.Record) content.Record {
	data := record.Clone()
	delete(data, "_id")
	return data
}

// mongoID treats 24-char hex ids as ObjectIDs and everything else as a string key.
func mongoID(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
