package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig contains connection settings for the MongoDB preset store.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // e.g. stowage
	Collection string // e.g. presets
	Timeout    time.Duration
}

func (c *MongoConfig) setDefaults() {
	if c.URI == "" {
		c.URI = "mongodb://localhost:27017"
	}
	if c.Database == "" {
		c.Database = "stowage"
	}
	if c.Collection == "" {
		c.Collection = "presets"
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
}

// MongoStore keeps presets in a MongoDB collection. Documents are keyed by
// preset ID and saved with upserts.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
	now        func() time.Time
}

// NewMongoStore connects, pings and ensures the name index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	cfg.setDefaults()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		timeout:    cfg.Timeout,
		now:        time.Now,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create preset indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_idx"),
	})
	return err
}

func (s *MongoStore) Save(ctx context.Context, p *Preset) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if p.ID != "" && p.CreatedAt.IsZero() {
		var existing Preset
		err := s.collection.FindOne(ctx, bson.M{"_id": p.ID}).Decode(&existing)
		if err == nil {
			p.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("load preset: %w", err)
		}
	}
	if err := prepare(p, s.now().UTC().Truncate(time.Millisecond)); err != nil {
		return err
	}

	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Preset, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindByName(ctx context.Context, name string) (*Preset, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*Preset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var p Preset
	err := s.collection.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find preset: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Preset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer cur.Close(ctx)

	var out []Preset
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close terminates the connection.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
