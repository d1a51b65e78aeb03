// Package mongo reads holder records from a MongoDB collection. Documents
// keep the register's field names, so each document is one raw record.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"shareholder/internal/holdings/models"
	"shareholder/internal/holdings/source"
)

const Name = "mongo"

type Source struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

// Connect dials uri and verifies the connection within timeout.
func Connect(ctx context.Context, uri, database, collection string, timeout time.Duration) (*Source, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}
	return New(client, client.Database(database).Collection(collection)), nil
}

func New(client *mongo.Client, collection *mongo.Collection) *Source {
	return &Source{client: client, collection: collection, now: time.Now}
}

func (s *Source) Name() string { return Name }

// Fetch returns all documents in insertion (_id) order.
func (s *Source) Fetch(ctx context.Context) (*models.Snapshot, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, source.NewSourceError(source.ErrorProviderOutage, Name, "find records", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, source.NewSourceError(source.ErrorBadData, Name, "decode records", err)
	}

	records := make([]models.RawRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, ToRawRecord(doc))
	}
	return source.NewSnapshot(Name, records, s.now()), nil
}

func (s *Source) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return source.NewSourceError(source.ErrorProviderOutage, Name, "ping", err)
	}
	return nil
}

// Insert appends records to the collection in order.
func (s *Source) Insert(ctx context.Context, records ...models.RawRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, len(records))
	for i, r := range records {
		docs[i] = bson.M(r)
	}
	if _, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}

func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ToRawRecord converts a decoded document into plain Go values: nested
// documents become maps, arrays become []any, ObjectIDs become hex strings.
func ToRawRecord(doc bson.M) models.RawRecord {
	out := make(models.RawRecord, len(doc))
	for k, v := range doc {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return map[string]any(ToRawRecord(t))
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		return t.String()
	case primitive.DateTime:
		return t.Time().UTC()
	default:
		return v
	}
}
