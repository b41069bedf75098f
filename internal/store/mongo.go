package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AngelCh415/leadpane/internal/records"
)

const (
	migrationsCollection = "schema_migrations"
	countersCollection   = "counters"
	schemaDocID          = "records"
	namespaceExists      = 48
)

type rowDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Cells []string           `bson:"cells"`
}

type schemaDoc struct {
	ID        string              `bson:"_id"`
	Version   int                 `bson:"version"`
	Tables    map[string][]string `bson:"tables"`
	AppliedAt time.Time           `bson:"applied_at"`
}

// MongoStore keeps one collection per table; each document holds one row.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

func (s *MongoStore) EnsureSchema(ctx context.Context) (Migration, error) {
	schema := records.Current()

	var meta schemaDoc
	err := s.db.Collection(migrationsCollection).FindOne(ctx, bson.M{"_id": schemaDocID}).Decode(&meta)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return Migration{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	m := Migration{FromVersion: meta.Version, ToVersion: schema.Version}

	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return m, fmt.Errorf("failed to list collections: %w", err)
	}
	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[n] = true
	}

	headers := make(map[string][]string, len(schema.Tables))
	for _, t := range schema.Tables {
		headers[t.Name] = t.Headers
		if existing[t.Name] {
			continue
		}
		if err := s.db.CreateCollection(ctx, t.Name); err != nil {
			var ce mongo.CommandError
			if !errors.As(err, &ce) || ce.Code != namespaceExists {
				return m, fmt.Errorf("failed to create %s: %w", t.Name, err)
			}
			continue
		}
		m.Created = append(m.Created, t.Name)
	}

	if !m.Changed() {
		return m, nil
	}
	_, err = s.db.Collection(migrationsCollection).UpdateOne(ctx,
		bson.M{"_id": schemaDocID},
		bson.M{"$set": bson.M{"version": schema.Version, "tables": headers, "applied_at": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	if err != nil {
		return m, fmt.Errorf("failed to record schema version: %w", err)
	}
	return m, nil
}

func (s *MongoStore) ReadAll(ctx context.Context, t records.TableDef) ([][]string, error) {
	return s.find(ctx, t, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *MongoStore) find(ctx context.Context, t records.TableDef, opts *options.FindOptions) ([][]string, error) {
	cursor, err := s.db.Collection(t.Name).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.Name, err)
	}
	var docs []rowDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", t.Name, err)
	}
	out := make([][]string, len(docs))
	for i, d := range docs {
		out[i] = d.Cells
	}
	return out, nil
}

func (s *MongoStore) Append(ctx context.Context, t records.TableDef, row []string) error {
	if _, err := s.db.Collection(t.Name).InsertOne(ctx, rowDoc{Cells: row}); err != nil {
		return fmt.Errorf("failed to append to %s: %w", t.Name, err)
	}
	return nil
}

// NextID hands out ids from a per-table counter. The counter is first raised
// to the highest id already present so rows written by other tools are
// never reused.
func (s *MongoStore) NextID(ctx context.Context, t records.TableDef) (int, error) {
	rows, err := s.find(ctx, t, options.Find().SetProjection(bson.M{"cells": bson.M{"$slice": 1}}))
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, r := range rows {
		if len(r) > 0 {
			highest = max(highest, records.ID(r[0]))
		}
	}

	counters := s.db.Collection(countersCollection)
	_, err = counters.UpdateOne(ctx,
		bson.M{"_id": t.Name},
		bson.M{"$max": bson.M{"seq": highest}},
		options.Update().SetUpsert(true))
	if err != nil {
		return 0, fmt.Errorf("failed to seed %s counter: %w", t.Name, err)
	}

	var c struct {
		Seq int `bson:"seq"`
	}
	err = counters.FindOneAndUpdate(ctx,
		bson.M{"_id": t.Name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", t.Name, err)
	}
	return c.Seq, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
