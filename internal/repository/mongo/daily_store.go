package mongo

import (
	"alcyxob/health-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// dailyStore holds the queries shared by every per-day tracker collection.
// Documents are keyed by (ownerId, date) where date is midnight UTC.
type dailyStore[T any] struct {
	collection *mongo.Collection
}

func (s dailyStore[T]) getByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*T, error) {
	var record T
	filter := bson.M{"ownerId": ownerID, "date": date}
	err := s.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// listRange returns records with from <= date <= to, oldest first.
func (s dailyStore[T]) listRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]T, error) {
	records := []T{}
	filter := bson.M{
		"ownerId": ownerID,
		"date":    bson.M{"$gte": from, "$lte": to},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// replace upserts the whole document for (ownerId, date) and returns the
// inserted ID when a new document was created.
func (s dailyStore[T]) replace(ctx context.Context, ownerID primitive.ObjectID, date time.Time, record *T) (primitive.ObjectID, error) {
	filter := bson.M{"ownerId": ownerID, "date": date}
	result, err := s.collection.ReplaceOne(ctx, filter, record, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	if result.UpsertedID == nil {
		if result.MatchedCount == 0 {
			return primitive.NilObjectID, repository.ErrUpdateFailed
		}
		return primitive.NilObjectID, nil
	}
	insertedID, ok := result.UpsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert upserted ID")
	}
	return insertedID, nil
}

// EnsureDailyIndexes creates the (ownerId, date) unique index used by every tracker collection.
func EnsureDailyIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One record per user per calendar day
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logIndexWarning(collection, err)
	}
}
