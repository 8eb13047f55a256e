package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/lock"
	"alcyxob/health-tracker/internal/metrics"
	"alcyxob/health-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutService handles workout days.
type WorkoutService interface {
	AddWorkoutEntry(ctx context.Context, ownerID primitive.ObjectID, date time.Time, entry domain.WorkoutEntry) (*domain.WorkoutRecord, error)
	SetWorkoutTarget(ctx context.Context, ownerID primitive.ObjectID, date time.Time, targetMinutes float64) (*domain.WorkoutRecord, error)
	GetWorkouts(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.WorkoutRecord, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	engine      *metrics.Engine
	locker      lock.Locker
	opts        TrackerOptions
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, engine *metrics.Engine, locker lock.Locker, opts TrackerOptions) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo, engine: engine, locker: locker, opts: opts}
}

func (s *workoutService) validateEntry(entry domain.WorkoutEntry) error {
	if strings.TrimSpace(entry.Type) == "" {
		return fmt.Errorf("%w: workoutType is required", ErrValidationFailed)
	}
	if entry.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrValidationFailed)
	}
	if entry.Calories < 0 {
		return fmt.Errorf("%w: calories cannot be negative", ErrValidationFailed)
	}
	if entry.Distance != nil {
		if entry.Distance.Value < 0 {
			return fmt.Errorf("%w: distance cannot be negative", ErrValidationFailed)
		}
		if _, err := s.engine.Conversion().ToCanonical(entry.Distance.Value, metrics.Unit(entry.Distance.Unit), metrics.KindDistance); err != nil {
			return err
		}
	}
	return nil
}

func (s *workoutService) mutate(ctx context.Context, ownerID primitive.ObjectID, date time.Time, mutate func(*domain.WorkoutRecord)) (*domain.WorkoutRecord, error) {
	if err := validateOwnerDate(ownerID, date); err != nil {
		return nil, err
	}
	day := metrics.Day(date)
	m := dayMutation[domain.WorkoutRecord]{
		kind:        domain.TrackerWorkout,
		owner:       ownerID,
		day:         day,
		historyDays: s.opts.HistoryDays,
		fresh: func() domain.WorkoutRecord {
			return domain.WorkoutRecord{OwnerID: ownerID, Date: day, Entries: []domain.WorkoutEntry{}}
		},
		mutate: func(r *domain.WorkoutRecord) error {
			mutate(r)
			r.TargetMinutes = orDefault(r.TargetMinutes, s.opts.Defaults.WorkoutMinutes)
			return nil
		},
		derive: s.engine.DeriveWorkout,
	}
	return m.apply(ctx, s.locker, s.workoutRepo)
}

// AddWorkoutEntry appends an entry to the day. A zero entry date is stamped with the current time.
func (s *workoutService) AddWorkoutEntry(ctx context.Context, ownerID primitive.ObjectID, date time.Time, entry domain.WorkoutEntry) (*domain.WorkoutRecord, error) {
	if err := s.validateEntry(entry); err != nil {
		return nil, err
	}
	entry.Type = strings.TrimSpace(entry.Type)
	if entry.Distance != nil {
		entry.Distance.Unit = string(metrics.ParseUnit(entry.Distance.Unit))
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}
	return s.mutate(ctx, ownerID, date, func(r *domain.WorkoutRecord) {
		r.Entries = append(r.Entries, entry)
	})
}

func (s *workoutService) SetWorkoutTarget(ctx context.Context, ownerID primitive.ObjectID, date time.Time, targetMinutes float64) (*domain.WorkoutRecord, error) {
	if targetMinutes <= 0 {
		return nil, fmt.Errorf("%w: target must be positive", ErrValidationFailed)
	}
	return s.mutate(ctx, ownerID, date, func(r *domain.WorkoutRecord) {
		r.TargetMinutes = targetMinutes
	})
}

func (s *workoutService) GetWorkouts(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.WorkoutRecord, error) {
	return getDay[domain.WorkoutRecord](ctx, s.workoutRepo, ownerID, metrics.Day(date))
}
