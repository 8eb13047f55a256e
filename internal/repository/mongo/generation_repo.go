package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const generationCollectionName = "generations"

// mongoGenerationRepository implements repository.GenerationRepository
type mongoGenerationRepository struct {
	collection *mongo.Collection
}

// NewMongoGenerationRepository creates a new Generation repository.
func NewMongoGenerationRepository(db *mongo.Database) repository.GenerationRepository {
	return &mongoGenerationRepository{
		collection: db.Collection(generationCollectionName),
	}
}

// Create inserts a pending record. The partial unique index turns a second
// pending record for the same owner and kind into ErrConflict.
func (r *mongoGenerationRepository) Create(ctx context.Context, record *domain.GenerationRecord) (primitive.ObjectID, error) {
	if record.OwnerID == primitive.NilObjectID || record.Kind == "" || record.GeneratedAt.IsZero() {
		return primitive.NilObjectID, errors.New("generation requires ownerId, kind, and generatedAt")
	}
	record.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted generation ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single generation record.
func (r *mongoGenerationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error) {
	var record domain.GenerationRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetLatest returns the authoritative record: newest by generatedAt.
func (r *mongoGenerationRepository) GetLatest(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error) {
	var record domain.GenerationRecord
	filter := bson.M{"ownerId": ownerID, "kind": kind}
	findOneOptions := options.FindOne().SetSort(bson.D{{Key: "generatedAt", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOneOptions).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListPending returns pending records, oldest first, for the generation worker.
func (r *mongoGenerationRepository) ListPending(ctx context.Context, limit int64) ([]domain.GenerationRecord, error) {
	records := []domain.GenerationRecord{}
	filter := bson.M{"status": domain.GenerationPending}
	findOptions := options.Find().SetSort(bson.D{{Key: "generatedAt", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateStatus persists a status transition. nextGenerationDate and
// generatedAt are never part of the update.
func (r *mongoGenerationRepository) UpdateStatus(ctx context.Context, record *domain.GenerationRecord) error {
	if record.ID == primitive.NilObjectID {
		return errors.New("generation ID is required for update")
	}
	filter := bson.M{"_id": record.ID, "status": domain.GenerationPending}
	updateDoc := bson.M{
		"$set": bson.M{
			"status":       record.Status,
			"payload":      record.Payload,
			"errorMessage": record.ErrorMessage,
			"attemptCount": record.AttemptCount,
			"updatedAt":    record.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound // Missing, or no longer pending
	}
	return nil
}

// EnsureGenerationIndexes creates necessary indexes. Call during startup.
func EnsureGenerationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Newest record per user timeline
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "kind", Value: 1}, {Key: "generatedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// At most one pending generation per user timeline
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "kind", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("one_pending_per_owner").
				SetPartialFilterExpression(bson.M{"status": domain.GenerationPending}),
		},
		{
			// Worker polling
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "generatedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logIndexWarning(collection, err)
	}
}
