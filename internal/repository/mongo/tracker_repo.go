package mongo

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	calorieCollectionName = "calorie_trackers"
	waterCollectionName   = "water_trackers"
	sleepCollectionName   = "sleep_trackers"
	workoutCollectionName = "workout_trackers"
)

func validateDailyKey(ownerID primitive.ObjectID, date time.Time) error {
	if ownerID == primitive.NilObjectID || date.IsZero() {
		return errors.New("tracker record requires ownerId and date")
	}
	return nil
}

// stampTimes sets createdAt on first write and always bumps updatedAt.
func stampTimes(createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

func keepID(id *primitive.ObjectID, inserted primitive.ObjectID) {
	if inserted != primitive.NilObjectID {
		*id = inserted
	}
}

// --- Calories ---

type mongoCalorieRepository struct {
	store dailyStore[domain.CalorieRecord]
}

// NewMongoCalorieRepository creates a calorie tracker repository.
func NewMongoCalorieRepository(db *mongo.Database) repository.CalorieRepository {
	return &mongoCalorieRepository{store: dailyStore[domain.CalorieRecord]{collection: db.Collection(calorieCollectionName)}}
}

func (r *mongoCalorieRepository) GetByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.CalorieRecord, error) {
	return r.store.getByDate(ctx, ownerID, date)
}

func (r *mongoCalorieRepository) ListRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.CalorieRecord, error) {
	return r.store.listRange(ctx, ownerID, from, to)
}

func (r *mongoCalorieRepository) Upsert(ctx context.Context, record *domain.CalorieRecord) error {
	if err := validateDailyKey(record.OwnerID, record.Date); err != nil {
		return err
	}
	stampTimes(&record.CreatedAt, &record.UpdatedAt)
	id, err := r.store.replace(ctx, record.OwnerID, record.Date, record)
	if err != nil {
		return err
	}
	keepID(&record.ID, id)
	return nil
}

// --- Water ---

type mongoWaterRepository struct {
	store dailyStore[domain.WaterRecord]
}

// NewMongoWaterRepository creates a water tracker repository.
func NewMongoWaterRepository(db *mongo.Database) repository.WaterRepository {
	return &mongoWaterRepository{store: dailyStore[domain.WaterRecord]{collection: db.Collection(waterCollectionName)}}
}

func (r *mongoWaterRepository) GetByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.WaterRecord, error) {
	return r.store.getByDate(ctx, ownerID, date)
}

func (r *mongoWaterRepository) ListRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.WaterRecord, error) {
	return r.store.listRange(ctx, ownerID, from, to)
}

func (r *mongoWaterRepository) Upsert(ctx context.Context, record *domain.WaterRecord) error {
	if err := validateDailyKey(record.OwnerID, record.Date); err != nil {
		return err
	}
	stampTimes(&record.CreatedAt, &record.UpdatedAt)
	id, err := r.store.replace(ctx, record.OwnerID, record.Date, record)
	if err != nil {
		return err
	}
	keepID(&record.ID, id)
	return nil
}

// --- Sleep ---

type mongoSleepRepository struct {
	store dailyStore[domain.SleepRecord]
}

// NewMongoSleepRepository creates a sleep tracker repository.
func NewMongoSleepRepository(db *mongo.Database) repository.SleepRepository {
	return &mongoSleepRepository{store: dailyStore[domain.SleepRecord]{collection: db.Collection(sleepCollectionName)}}
}

func (r *mongoSleepRepository) GetByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.SleepRecord, error) {
	return r.store.getByDate(ctx, ownerID, date)
}

func (r *mongoSleepRepository) ListRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.SleepRecord, error) {
	return r.store.listRange(ctx, ownerID, from, to)
}

func (r *mongoSleepRepository) Upsert(ctx context.Context, record *domain.SleepRecord) error {
	if err := validateDailyKey(record.OwnerID, record.Date); err != nil {
		return err
	}
	stampTimes(&record.CreatedAt, &record.UpdatedAt)
	id, err := r.store.replace(ctx, record.OwnerID, record.Date, record)
	if err != nil {
		return err
	}
	keepID(&record.ID, id)
	return nil
}

// --- Workout ---

type mongoWorkoutRepository struct {
	store dailyStore[domain.WorkoutRecord]
}

// NewMongoWorkoutRepository creates a workout tracker repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{store: dailyStore[domain.WorkoutRecord]{collection: db.Collection(workoutCollectionName)}}
}

func (r *mongoWorkoutRepository) GetByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.WorkoutRecord, error) {
	return r.store.getByDate(ctx, ownerID, date)
}

func (r *mongoWorkoutRepository) ListRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutRecord, error) {
	return r.store.listRange(ctx, ownerID, from, to)
}

func (r *mongoWorkoutRepository) Upsert(ctx context.Context, record *domain.WorkoutRecord) error {
	if err := validateDailyKey(record.OwnerID, record.Date); err != nil {
		return err
	}
	stampTimes(&record.CreatedAt, &record.UpdatedAt)
	id, err := r.store.replace(ctx, record.OwnerID, record.Date, record)
	if err != nil {
		return err
	}
	keepID(&record.ID, id)
	return nil
}
