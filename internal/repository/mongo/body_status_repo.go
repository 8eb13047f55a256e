package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bodyStatusCollectionName = "body_statuses"

// mongoBodyStatusRepository implements repository.BodyStatusRepository
type mongoBodyStatusRepository struct {
	collection *mongo.Collection
}

// NewMongoBodyStatusRepository creates a new BodyStatus repository.
func NewMongoBodyStatusRepository(db *mongo.Database) repository.BodyStatusRepository {
	return &mongoBodyStatusRepository{
		collection: db.Collection(bodyStatusCollectionName),
	}
}

// Create inserts a new snapshot. Snapshots are immutable apart from soft deletion.
func (r *mongoBodyStatusRepository) Create(ctx context.Context, status *domain.BodyStatus) (primitive.ObjectID, error) {
	if status.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("body status requires ownerId")
	}
	status.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	status.CreatedAt = now
	status.UpdatedAt = now
	if status.MeasurementDate.IsZero() {
		status.MeasurementDate = now
	}

	result, err := r.collection.InsertOne(ctx, status)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted body status ID")
	}
	return insertedID, nil
}

// GetLatestActive returns the most recent active snapshot by measurement date.
func (r *mongoBodyStatusRepository) GetLatestActive(ctx context.Context, ownerID primitive.ObjectID) (*domain.BodyStatus, error) {
	var status domain.BodyStatus
	filter := bson.M{"ownerId": ownerID, "isActive": true}
	findOneOptions := options.FindOne().SetSort(bson.D{{Key: "measurementDate", Value: -1}, {Key: "_id", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOneOptions).Decode(&status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

// ListActive returns active snapshots, newest first.
func (r *mongoBodyStatusRepository) ListActive(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.BodyStatus, error) {
	statuses := []domain.BodyStatus{}
	filter := bson.M{"ownerId": ownerID, "isActive": true}
	findOptions := options.Find().SetSort(bson.D{{Key: "measurementDate", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// Deactivate soft-deletes a snapshot. The owner filter keeps users inside their own records.
func (r *mongoBodyStatusRepository) Deactivate(ctx context.Context, id, ownerID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "ownerId": ownerID, "isActive": true}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureBodyStatusIndexes creates necessary indexes. Call during startup.
func EnsureBodyStatusIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Latest active snapshot per user
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "measurementDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logIndexWarning(collection, err)
	}
}
