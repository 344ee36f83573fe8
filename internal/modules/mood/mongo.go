package mood

import (
	"context"
	"fmt"
	"time"

	"github.com/moodnotes/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// moodDocument is the wire shape of one entry in the moods collection.
type moodDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Mood      string             `bson:"mood"`
	Note      string             `bson:"note"`
	Timestamp time.Time          `bson:"timestamp"`
	CreatedAt time.Time          `bson:"createdAt"`
	UserID    string             `bson:"userId"`
}

// MongoRepository stores mood entries in a MongoDB collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, entry models.MoodEntry) (string, error) {
	doc := moodDocument{
		Mood:      string(entry.Mood),
		Note:      entry.Note,
		Timestamp: entry.Timestamp,
		CreatedAt: entry.CreatedAt,
		UserID:    entry.UserID,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *MongoRepository) List(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *MongoRepository) ListRange(ctx context.Context, userID string, start, end time.Time) ([]models.MoodEntry, error) {
	return r.find(ctx, bson.M{
		"userId":    userID,
		"timestamp": bson.M{"$gte": start, "$lte": end},
	})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]models.MoodEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []moodDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]models.MoodEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, models.MoodEntry{
			ID:        d.ID.Hex(),
			Mood:      models.Mood(d.Mood),
			Note:      d.Note,
			Timestamp: d.Timestamp,
			CreatedAt: d.CreatedAt,
			UserID:    d.UserID,
		})
	}
	return entries, nil
}
