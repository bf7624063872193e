package repository

import (
	"careerpilot/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IntelligenceRepo handles MongoDB operations for the per-user
// intelligence summary. The userId unique index guarantees at most one
// summary document per user even under concurrent upserts.
type IntelligenceRepo interface {
	EnsureIndexes(ctx context.Context) error
	Upsert(ctx context.Context, intelligence *model.Intelligence) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Intelligence, error)
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
}

type intelligenceRepo struct {
	collection *mongo.Collection
}

// NewIntelligenceRepo creates a new intelligence repository
func NewIntelligenceRepo(db *mongo.Database) IntelligenceRepo {
	return &intelligenceRepo{
		collection: db.Collection("career_intelligence"),
	}
}

func (r *intelligenceRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *intelligenceRepo) Upsert(ctx context.Context, intelligence *model.Intelligence) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"userId": intelligence.UserID}, intelligence, opts)
	return err
}

func (r *intelligenceRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Intelligence, error) {
	var intelligence model.Intelligence
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&intelligence)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &intelligence, nil
}

func (r *intelligenceRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}
