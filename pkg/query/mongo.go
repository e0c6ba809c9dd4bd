package query

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/facetkit/pkg/record"
)

// MongoConfig configures a [MongoSearcher].
type MongoConfig struct {
	URI      string
	Database string
	// CollectionPrefix is prepended to the type tag to name the collection.
	CollectionPrefix string
}

// MongoSearcher reads each collection type from its own MongoDB collection.
// A query is a MongoDB filter document in extended JSON; an empty query
// matches everything.
type MongoSearcher struct {
	client *mongo.Client
	db     *mongo.Database
	prefix string
}

// NewMongoSearcher connects to MongoDB and verifies the connection.
func NewMongoSearcher(ctx context.Context, cfg MongoConfig) (*MongoSearcher, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoSearcher{
		client: client,
		db:     client.Database(cfg.Database),
		prefix: cfg.CollectionPrefix,
	}, nil
}

func (s *MongoSearcher) Search(ctx context.Context, typeTag, q string) ([]record.Record, error) {
	filter, err := ParseMongoFilter(q)
	if err != nil {
		return nil, err
	}

	cur, err := s.db.Collection(s.prefix+typeTag).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", typeTag, err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode %s: %w", typeTag, err)
	}

	out := make([]record.Record, len(docs))
	for i, d := range docs {
		out[i] = record.Record(plainMap(d))
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoSearcher) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ParseMongoFilter decodes an extended JSON filter document.
func ParseMongoFilter(q string) (bson.M, error) {
	filter := bson.M{}
	if strings.TrimSpace(q) == "" {
		return filter, nil
	}
	if err := bson.UnmarshalExtJSON([]byte(q), false, &filter); err != nil {
		return nil, fmt.Errorf("parse mongo filter: %w", err)
	}
	return filter, nil
}

// plainValue converts BSON container types into plain maps and slices so
// path resolution and string forms treat them like decoded JSON.
func plainValue(v any) any {
	switch x := v.(type) {
	case bson.M:
		return plainMap(x)
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plainValue(e)
		}
		return out
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	case int32:
		return int(x)
	case int64:
		return int(x)
	}
	return v
}

func plainMap(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

var _ Searcher = (*MongoSearcher)(nil)
