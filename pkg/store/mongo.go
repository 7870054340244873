package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/lineplanner/pkg/line"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "lineplanner"

// linesCollection holds one document per record, keyed by record ID.
const linesCollection = "lines"

// MongoStore keeps records in the lines collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri cannot be empty")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	ctx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("verifying mongo connection: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(linesCollection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, r *line.Record) error {
	if err := validate(r); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*line.Record, error) {
	var r line.Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("finding record: %w", err)
	}
	return &r, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*line.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	var out []*line.Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
