// Package memory implements the repository interfaces in process. It backs
// tests and single-instance runs without MongoDB.
package memory

import (
	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/repository"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type dailyKey struct {
	owner primitive.ObjectID
	date  time.Time
}

// dailyStore mirrors the Mongo per-day collections: unique per (owner, date).
type dailyStore[T any] struct {
	mu      sync.RWMutex
	records map[dailyKey]T
	key     func(*T) (primitive.ObjectID, time.Time)
	meta    func(*T) (*primitive.ObjectID, *time.Time, *time.Time)
}

func newDailyStore[T any](key func(*T) (primitive.ObjectID, time.Time), meta func(*T) (*primitive.ObjectID, *time.Time, *time.Time)) *dailyStore[T] {
	return &dailyStore[T]{records: make(map[dailyKey]T), key: key, meta: meta}
}

// clone round-trips through BSON so callers never share maps or slices with the store.
func clone[T any](in T) (T, error) {
	var out T
	raw, err := bson.Marshal(in)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}

func (s *dailyStore[T]) GetByDate(_ context.Context, ownerID primitive.ObjectID, date time.Time) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[dailyKey{ownerID, date}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp, err := clone(rec)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *dailyStore[T]) ListRange(_ context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []T{}
	for k, rec := range s.records {
		if k.owner == ownerID && !k.date.Before(from) && !k.date.After(to) {
			cp, err := clone(rec)
			if err != nil {
				return nil, err
			}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		_, di := s.key(&out[i])
		_, dj := s.key(&out[j])
		return di.Before(dj)
	})
	return out, nil
}

func (s *dailyStore[T]) Upsert(_ context.Context, record *T) error {
	owner, date := s.key(record)
	if owner == primitive.NilObjectID || date.IsZero() {
		return errors.New("tracker record requires ownerId and date")
	}
	id, createdAt, updatedAt := s.meta(record)

	s.mu.Lock()
	defer s.mu.Unlock()
	k := dailyKey{owner, date}
	if existing, ok := s.records[k]; ok {
		existingID, _, _ := s.meta(&existing)
		if *id != primitive.NilObjectID && *id != *existingID {
			return repository.ErrConflict
		}
		*id = *existingID
	} else if *id == primitive.NilObjectID {
		*id = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
	stored, err := clone(*record)
	if err != nil {
		return err
	}
	s.records[k] = stored
	return nil
}

// NewCalorieRepository creates an in-memory calorie repository.
func NewCalorieRepository() repository.CalorieRepository {
	return newDailyStore(
		func(r *domain.CalorieRecord) (primitive.ObjectID, time.Time) { return r.OwnerID, r.Date },
		func(r *domain.CalorieRecord) (*primitive.ObjectID, *time.Time, *time.Time) {
			return &r.ID, &r.CreatedAt, &r.UpdatedAt
		})
}

func NewWaterRepository() repository.WaterRepository {
	return newDailyStore(
		func(r *domain.WaterRecord) (primitive.ObjectID, time.Time) { return r.OwnerID, r.Date },
		func(r *domain.WaterRecord) (*primitive.ObjectID, *time.Time, *time.Time) {
			return &r.ID, &r.CreatedAt, &r.UpdatedAt
		})
}

func NewSleepRepository() repository.SleepRepository {
	return newDailyStore(
		func(r *domain.SleepRecord) (primitive.ObjectID, time.Time) { return r.OwnerID, r.Date },
		func(r *domain.SleepRecord) (*primitive.ObjectID, *time.Time, *time.Time) {
			return &r.ID, &r.CreatedAt, &r.UpdatedAt
		})
}

func NewWorkoutRepository() repository.WorkoutRepository {
	return newDailyStore(
		func(r *domain.WorkoutRecord) (primitive.ObjectID, time.Time) { return r.OwnerID, r.Date },
		func(r *domain.WorkoutRecord) (*primitive.ObjectID, *time.Time, *time.Time) {
			return &r.ID, &r.CreatedAt, &r.UpdatedAt
		})
}

// --- Body status ---

type BodyStatusRepository struct {
	mu       sync.RWMutex
	statuses []domain.BodyStatus
}

func NewBodyStatusRepository() *BodyStatusRepository {
	return &BodyStatusRepository{}
}

func (r *BodyStatusRepository) Create(_ context.Context, status *domain.BodyStatus) (primitive.ObjectID, error) {
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
	r.mu.Lock()
	r.statuses = append(r.statuses, *status)
	r.mu.Unlock()
	return status.ID, nil
}

// activeNewestFirst must be called with the lock held. Later inserts win ties.
func (r *BodyStatusRepository) activeNewestFirst(ownerID primitive.ObjectID) []domain.BodyStatus {
	out := []domain.BodyStatus{}
	for i := len(r.statuses) - 1; i >= 0; i-- {
		if s := r.statuses[i]; s.OwnerID == ownerID && s.IsActive {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MeasurementDate.After(out[j].MeasurementDate) })
	return out
}

func (r *BodyStatusRepository) GetLatestActive(_ context.Context, ownerID primitive.ObjectID) (*domain.BodyStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := r.activeNewestFirst(ownerID)
	if len(active) == 0 {
		return nil, repository.ErrNotFound
	}
	return &active[0], nil
}

func (r *BodyStatusRepository) ListActive(_ context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.BodyStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.activeNewestFirst(ownerID)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *BodyStatusRepository) Deactivate(_ context.Context, id, ownerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.statuses {
		s := &r.statuses[i]
		if s.ID == id && s.OwnerID == ownerID && s.IsActive {
			s.IsActive = false
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- Generations ---

type GenerationRepository struct {
	mu      sync.RWMutex
	records []domain.GenerationRecord
}

func NewGenerationRepository() *GenerationRepository {
	return &GenerationRepository{}
}

func (r *GenerationRepository) Create(_ context.Context, record *domain.GenerationRecord) (primitive.ObjectID, error) {
	if record.OwnerID == primitive.NilObjectID || record.Kind == "" || record.GeneratedAt.IsZero() {
		return primitive.NilObjectID, errors.New("generation requires ownerId, kind, and generatedAt")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.Status == domain.GenerationPending {
		for _, g := range r.records {
			if g.OwnerID == record.OwnerID && g.Kind == record.Kind && g.Status == domain.GenerationPending {
				return primitive.NilObjectID, repository.ErrConflict
			}
		}
	}
	record.ID = primitive.NewObjectID()
	r.records = append(r.records, *record)
	return record.ID, nil
}

func (r *GenerationRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.GenerationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.records {
		if g.ID == id {
			cp := g
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *GenerationRepository) GetLatest(_ context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.GenerationRecord
	for i := range r.records {
		g := &r.records[i]
		if g.OwnerID != ownerID || g.Kind != kind {
			continue
		}
		if latest == nil || g.GeneratedAt.After(latest.GeneratedAt) {
			latest = g
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *GenerationRepository) ListPending(_ context.Context, limit int64) ([]domain.GenerationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.GenerationRecord{}
	for _, g := range r.records {
		if g.Status == domain.GenerationPending {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GeneratedAt.Before(out[j].GeneratedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *GenerationRepository) UpdateStatus(_ context.Context, record *domain.GenerationRecord) error {
	if record.ID == primitive.NilObjectID {
		return errors.New("generation ID is required for update")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		g := &r.records[i]
		if g.ID != record.ID || g.Status != domain.GenerationPending {
			continue
		}
		g.Status = record.Status
		g.Payload = record.Payload
		g.ErrorMessage = record.ErrorMessage
		g.AttemptCount = record.AttemptCount
		g.UpdatedAt = record.UpdatedAt
		return nil
	}
	return repository.ErrNotFound
}
