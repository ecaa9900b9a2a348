package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m2tx/city_agent/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultCollection = "sessions"

type sessionDocument struct {
	ID        string          `bson:"_id"`
	History   []model.Content `bson:"history"`
	Turns     int             `bson:"turns"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

// MongoSessionRepository implements SessionRepository using MongoDB.
type MongoSessionRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoSessionRepository creates a new MongoSessionRepository.
// collectionName defaults to "sessions" if empty.
func NewMongoSessionRepository(db *mongo.Database, collectionName string) *MongoSessionRepository {
	if collectionName == "" {
		collectionName = DefaultCollection
	}
	return &MongoSessionRepository{
		collection: db.Collection(collectionName),
		now:        time.Now,
	}
}

// EnsureTTL creates a TTL index on updated_at so idle sessions expire after ttl.
// A zero ttl leaves the collection untouched.
func (r *MongoSessionRepository) EnsureTTL(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetName("updated_at_ttl").SetExpireAfterSeconds(int32(ttl.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("repository: create ttl index: %w", err)
	}

	return nil
}

func (r *MongoSessionRepository) Save(ctx context.Context, sessionID string, history []model.Content) error {
	doc := sessionDocument{
		ID:        sessionID,
		History:   history,
		Turns:     countUserTurns(history),
		UpdatedAt: r.now().UTC(),
	}

	filter := bson.M{"_id": sessionID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("repository: upsert session %q: %w", sessionID, err)
	}

	return nil
}

func (r *MongoSessionRepository) Load(ctx context.Context, sessionID string) ([]model.Content, error) {
	filter := bson.M{"_id": sessionID}

	var doc sessionDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find session %q: %w", sessionID, err)
	}

	return doc.History, nil
}

func (r *MongoSessionRepository) Delete(ctx context.Context, sessionID string) error {
	filter := bson.M{"_id": sessionID}

	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("repository: delete session %q: %w", sessionID, err)
	}

	return nil
}

func (r *MongoSessionRepository) Ping(ctx context.Context) error {
	if err := r.collection.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("repository: ping: %w", err)
	}
	return nil
}
