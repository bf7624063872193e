package repository

import (
	"careerpilot/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InterviewRepo handles MongoDB operations for interview sessions
type InterviewRepo interface {
	Create(ctx context.Context, interview *model.Interview) (string, error)
	GetByID(ctx context.Context, id string, userID primitive.ObjectID) (*model.Interview, error)
	GetAllByUser(ctx context.Context, userID primitive.ObjectID, ascending bool) ([]*model.Interview, error)
	PushAnswer(ctx context.Context, id string, userID primitive.ObjectID, answer *model.Answer) error
	SetCompleted(ctx context.Context, id string, userID primitive.ObjectID, totalScore float64, skillScores map[string]float64, completedAt time.Time) error
	SetStatus(ctx context.Context, id string, userID primitive.ObjectID, status string) error
	Delete(ctx context.Context, id string, userID primitive.ObjectID) error
	DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) error
}

type interviewRepo struct {
	collection *mongo.Collection
}

// NewInterviewRepo creates a new interview repository
func NewInterviewRepo(db *mongo.Database) InterviewRepo {
	return &interviewRepo{
		collection: db.Collection("interviews"),
	}
}

func (r *interviewRepo) Create(ctx context.Context, interview *model.Interview) (string, error) {
	interview.CreatedAt = time.Now().UTC()
	interview.UpdatedAt = interview.CreatedAt

	result, err := r.collection.InsertOne(ctx, interview)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	interview.ID = oid
	return oid.Hex(), nil
}

func (r *interviewRepo) GetByID(ctx context.Context, id string, userID primitive.ObjectID) (*model.Interview, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var interview model.Interview
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(&interview)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	interview.Normalize()
	return &interview, nil
}

func (r *interviewRepo) GetAllByUser(ctx context.Context, userID primitive.ObjectID, ascending bool) ([]*model.Interview, error) {
	order := 1
	if !ascending {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var interviews []*model.Interview
	if err := cursor.All(ctx, &interviews); err != nil {
		return nil, err
	}
	for _, interview := range interviews {
		interview.Normalize()
	}
	return interviews, nil
}

func (r *interviewRepo) PushAnswer(ctx context.Context, id string, userID primitive.ObjectID, answer *model.Answer) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": oid, "userId": userID},
		bson.M{
			"$push": bson.M{"answers": answer},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	return err
}

func (r *interviewRepo) SetCompleted(ctx context.Context, id string, userID primitive.ObjectID, totalScore float64, skillScores map[string]float64, completedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": oid, "userId": userID},
		bson.M{"$set": bson.M{
			"status":      model.StatusCompleted,
			"totalScore":  totalScore,
			"skillScores": skillScores,
			"completedAt": completedAt,
			"updatedAt":   completedAt,
		}},
	)
	return err
}

func (r *interviewRepo) SetStatus(ctx context.Context, id string, userID primitive.ObjectID, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": oid, "userId": userID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
	)
	return err
}

func (r *interviewRepo) Delete(ctx context.Context, id string, userID primitive.ObjectID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	return err
}

func (r *interviewRepo) DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
