package repository

import (
	"alcyxob/health-tracker/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrConflict     = RepositoryError("conflicting record exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// BodyStatusRepository stores body status snapshots. Deletes are soft.
type BodyStatusRepository interface {
	Create(ctx context.Context, status *domain.BodyStatus) (primitive.ObjectID, error)
	GetLatestActive(ctx context.Context, ownerID primitive.ObjectID) (*domain.BodyStatus, error)
	ListActive(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.BodyStatus, error)
	Deactivate(ctx context.Context, id, ownerID primitive.ObjectID) error
}

// CalorieRepository stores one calorie record per (owner, day).
type CalorieRepository interface {
	GetByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.CalorieRecord, error)
	ListRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.CalorieRecord, error)
	Upsert(ctx context.Context, record *domain.CalorieRecord) error
}

// WaterRepository stores one water record per (owner, day).
type WaterRepository interface {
	GetByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.WaterRecord, error)
	ListRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.WaterRecord, error)
	Upsert(ctx context.Context, record *domain.WaterRecord) error
}

// SleepRepository stores one sleep record per (owner, day).
type SleepRepository interface {
	GetByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.SleepRecord, error)
	ListRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.SleepRecord, error)
	Upsert(ctx context.Context, record *domain.SleepRecord) error
}

// WorkoutRepository stores one workout record per (owner, day).
type WorkoutRepository interface {
	GetByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.WorkoutRecord, error)
	ListRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutRecord, error)
	Upsert(ctx context.Context, record *domain.WorkoutRecord) error
}

// GenerationRepository stores generation timelines.
type GenerationRepository interface {
	// Create fails with ErrConflict if the owner already has a pending record of that kind.
	Create(ctx context.Context, record *domain.GenerationRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error)
	// GetLatest returns the newest record by generatedAt.
	GetLatest(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error)
	ListPending(ctx context.Context, limit int64) ([]domain.GenerationRecord, error)
	// UpdateStatus writes status, payload, error and attempt count; it only matches pending records.
	UpdateStatus(ctx context.Context, record *domain.GenerationRecord) error
}
