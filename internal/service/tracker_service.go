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

// CalorieSources are the breakdown keys a calorie record accepts.
var CalorieSources = map[string]bool{"workout": true, "steps": true, "other": true}

// DefaultTargets are substituted whenever a day has no usable target.
type DefaultTargets struct {
	Calories       float64
	WaterMl        float64
	SleepHours     float64
	WorkoutMinutes float64
}

// TrackerOptions configure every tracker service.
type TrackerOptions struct {
	HistoryDays int
	Defaults    DefaultTargets
}

// SleepInput is a sleep log for one night. Nil fields keep their stored value.
type SleepInput struct {
	HoursSlept  *float64
	BedTime     *time.Time
	WakeTime    *time.Time
	Quality     *int
	TargetHours *float64
}

// TrackerService handles calorie, water and sleep days.
type TrackerService interface {
	SetCalorieSource(ctx context.Context, ownerID primitive.ObjectID, date time.Time, source string, value float64) (*domain.CalorieRecord, error)
	SetCalorieTarget(ctx context.Context, ownerID primitive.ObjectID, date time.Time, target float64) (*domain.CalorieRecord, error)
	GetCalories(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.CalorieRecord, error)

	AddWaterIntake(ctx context.Context, ownerID primitive.ObjectID, date time.Time, amountMl float64, loggedAt time.Time) (*domain.WaterRecord, error)
	SetWaterTarget(ctx context.Context, ownerID primitive.ObjectID, date time.Time, targetMl float64) (*domain.WaterRecord, error)
	GetWater(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.WaterRecord, error)

	LogSleep(ctx context.Context, ownerID primitive.ObjectID, date time.Time, input SleepInput) (*domain.SleepRecord, error)
	GetSleep(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.SleepRecord, error)
}

type trackerService struct {
	calorieRepo repository.CalorieRepository
	waterRepo   repository.WaterRepository
	sleepRepo   repository.SleepRepository
	engine      *metrics.Engine
	locker      lock.Locker
	opts        TrackerOptions
}

// NewTrackerService creates a new TrackerService.
func NewTrackerService(
	calorieRepo repository.CalorieRepository,
	waterRepo repository.WaterRepository,
	sleepRepo repository.SleepRepository,
	engine *metrics.Engine,
	locker lock.Locker,
	opts TrackerOptions,
) TrackerService {
	return &trackerService{
		calorieRepo: calorieRepo,
		waterRepo:   waterRepo,
		sleepRepo:   sleepRepo,
		engine:      engine,
		locker:      locker,
		opts:        opts,
	}
}

func validateOwnerDate(ownerID primitive.ObjectID, date time.Time) error {
	if ownerID == primitive.NilObjectID || date.IsZero() {
		return fmt.Errorf("%w: owner and date are required", ErrValidationFailed)
	}
	return nil
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

// --- Calories ---

func (s *trackerService) mutateCalories(ctx context.Context, ownerID primitive.ObjectID, date time.Time, mutate func(*domain.CalorieRecord) error) (*domain.CalorieRecord, error) {
	if err := validateOwnerDate(ownerID, date); err != nil {
		return nil, err
	}
	day := metrics.Day(date)
	m := dayMutation[domain.CalorieRecord]{
		kind:        domain.TrackerCalories,
		owner:       ownerID,
		day:         day,
		historyDays: s.opts.HistoryDays,
		fresh: func() domain.CalorieRecord {
			return domain.CalorieRecord{OwnerID: ownerID, Date: day, Breakdown: map[string]float64{}}
		},
		mutate: func(r *domain.CalorieRecord) error {
			if r.Breakdown == nil {
				r.Breakdown = map[string]float64{}
			}
			if err := mutate(r); err != nil {
				return err
			}
			r.DailyTarget = orDefault(r.DailyTarget, s.opts.Defaults.Calories)
			return nil
		},
		derive: s.engine.DeriveCalories,
	}
	return m.apply(ctx, s.locker, s.calorieRepo)
}

// SetCalorieSource replaces one source's value for the day.
func (s *trackerService) SetCalorieSource(ctx context.Context, ownerID primitive.ObjectID, date time.Time, source string, value float64) (*domain.CalorieRecord, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	if !CalorieSources[source] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCalorieSource, source)
	}
	if value < 0 {
		return nil, fmt.Errorf("%w: calories cannot be negative", ErrValidationFailed)
	}
	return s.mutateCalories(ctx, ownerID, date, func(r *domain.CalorieRecord) error {
		r.Breakdown[source] = value
		return nil
	})
}

func (s *trackerService) SetCalorieTarget(ctx context.Context, ownerID primitive.ObjectID, date time.Time, target float64) (*domain.CalorieRecord, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: target must be positive", ErrValidationFailed)
	}
	return s.mutateCalories(ctx, ownerID, date, func(r *domain.CalorieRecord) error {
		r.DailyTarget = target
		return nil
	})
}

func (s *trackerService) GetCalories(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.CalorieRecord, error) {
	return getDay[domain.CalorieRecord](ctx, s.calorieRepo, ownerID, metrics.Day(date))
}

// --- Water ---

func (s *trackerService) mutateWater(ctx context.Context, ownerID primitive.ObjectID, date time.Time, mutate func(*domain.WaterRecord)) (*domain.WaterRecord, error) {
	if err := validateOwnerDate(ownerID, date); err != nil {
		return nil, err
	}
	day := metrics.Day(date)
	m := dayMutation[domain.WaterRecord]{
		kind:        domain.TrackerWater,
		owner:       ownerID,
		day:         day,
		historyDays: s.opts.HistoryDays,
		fresh: func() domain.WaterRecord {
			return domain.WaterRecord{OwnerID: ownerID, Date: day, Intakes: []domain.WaterIntake{}}
		},
		mutate: func(r *domain.WaterRecord) error {
			mutate(r)
			r.TargetMl = orDefault(r.TargetMl, s.opts.Defaults.WaterMl)
			return nil
		},
		derive: s.engine.DeriveWater,
	}
	return m.apply(ctx, s.locker, s.waterRepo)
}

// AddWaterIntake appends a drink. A zero loggedAt is stamped with the current time.
func (s *trackerService) AddWaterIntake(ctx context.Context, ownerID primitive.ObjectID, date time.Time, amountMl float64, loggedAt time.Time) (*domain.WaterRecord, error) {
	if amountMl <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidationFailed)
	}
	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}
	return s.mutateWater(ctx, ownerID, date, func(r *domain.WaterRecord) {
		r.Intakes = append(r.Intakes, domain.WaterIntake{AmountMl: amountMl, LoggedAt: loggedAt})
	})
}

func (s *trackerService) SetWaterTarget(ctx context.Context, ownerID primitive.ObjectID, date time.Time, targetMl float64) (*domain.WaterRecord, error) {
	if targetMl <= 0 {
		return nil, fmt.Errorf("%w: target must be positive", ErrValidationFailed)
	}
	return s.mutateWater(ctx, ownerID, date, func(r *domain.WaterRecord) {
		r.TargetMl = targetMl
	})
}

func (s *trackerService) GetWater(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.WaterRecord, error) {
	return getDay[domain.WaterRecord](ctx, s.waterRepo, ownerID, metrics.Day(date))
}

// --- Sleep ---

func validateSleep(in SleepInput) error {
	if in.HoursSlept != nil && (*in.HoursSlept < 0 || *in.HoursSlept > 24) {
		return fmt.Errorf("%w: hoursSlept must be between 0 and 24", ErrValidationFailed)
	}
	if in.BedTime != nil && in.WakeTime != nil && !in.WakeTime.After(*in.BedTime) {
		return fmt.Errorf("%w: wakeTime must be after bedTime", ErrValidationFailed)
	}
	if in.Quality != nil && (*in.Quality < 1 || *in.Quality > 5) {
		return fmt.Errorf("%w: quality must be between 1 and 5", ErrValidationFailed)
	}
	if in.TargetHours != nil && *in.TargetHours <= 0 {
		return fmt.Errorf("%w: targetHours must be positive", ErrValidationFailed)
	}
	return nil
}

// LogSleep merges input into the night's record.
func (s *trackerService) LogSleep(ctx context.Context, ownerID primitive.ObjectID, date time.Time, in SleepInput) (*domain.SleepRecord, error) {
	if err := validateOwnerDate(ownerID, date); err != nil {
		return nil, err
	}
	if err := validateSleep(in); err != nil {
		return nil, err
	}
	day := metrics.Day(date)
	m := dayMutation[domain.SleepRecord]{
		kind:        domain.TrackerSleep,
		owner:       ownerID,
		day:         day,
		historyDays: s.opts.HistoryDays,
		fresh: func() domain.SleepRecord {
			return domain.SleepRecord{OwnerID: ownerID, Date: day}
		},
		mutate: func(r *domain.SleepRecord) error {
			if in.HoursSlept != nil {
				r.HoursSlept = *in.HoursSlept
				// Explicit hours win over a stale interval.
				if in.BedTime == nil && in.WakeTime == nil {
					r.BedTime, r.WakeTime = nil, nil
				}
			}
			if in.BedTime != nil {
				r.BedTime = in.BedTime
			}
			if in.WakeTime != nil {
				r.WakeTime = in.WakeTime
			}
			if in.Quality != nil {
				r.Quality = *in.Quality
			}
			if in.TargetHours != nil {
				r.TargetHours = *in.TargetHours
			}
			r.TargetHours = orDefault(r.TargetHours, s.opts.Defaults.SleepHours)
			return nil
		},
		derive: s.engine.DeriveSleep,
	}
	return m.apply(ctx, s.locker, s.sleepRepo)
}

func (s *trackerService) GetSleep(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*domain.SleepRecord, error) {
	return getDay[domain.SleepRecord](ctx, s.sleepRepo, ownerID, metrics.Day(date))
}
