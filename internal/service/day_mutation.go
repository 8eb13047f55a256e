package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/lock"
	"alcyxob/health-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dayRepository is the shape shared by every per-day tracker repository.
type dayRepository[T any] interface {
	GetByDate(ctx context.Context, ownerID primitive.ObjectID, date time.Time) (*T, error)
	ListRange(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]T, error)
	Upsert(ctx context.Context, record *T) error
}

// dayMutation is one read-modify-derive-write cycle on a tracker day.
type dayMutation[T any] struct {
	kind        domain.TrackerKind
	owner       primitive.ObjectID
	day         time.Time
	historyDays int
	// fresh builds the first record of the day.
	fresh  func() T
	mutate func(*T) error
	derive func(T, []T) (T, error)
}

// apply runs the cycle under the (owner, kind, day) lock so concurrent writes
// to the same day never lose an update.
func (m dayMutation[T]) apply(ctx context.Context, locker lock.Locker, repo dayRepository[T]) (*T, error) {
	release, err := locker.Acquire(ctx, lock.TrackerKey(m.owner, m.kind, m.day))
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := repo.GetByDate(ctx, m.owner, m.day)
	if errors.Is(err, repository.ErrNotFound) {
		rec := m.fresh()
		current = &rec
	} else if err != nil {
		return nil, err
	}

	if err := m.mutate(current); err != nil {
		return nil, err
	}

	history, err := repo.ListRange(ctx, m.owner, historyStart(m.day, m.historyDays), m.day)
	if err != nil {
		return nil, err
	}

	derived, err := m.derive(*current, history)
	if err != nil {
		return nil, err
	}
	if err := repo.Upsert(ctx, &derived); err != nil {
		return nil, err
	}
	return &derived, nil
}

// historyStart is the first day of the retained window ending at day.
func historyStart(day time.Time, historyDays int) time.Time {
	if historyDays < 1 {
		historyDays = 1
	}
	return day.AddDate(0, 0, -(historyDays - 1))
}

func getDay[T any](ctx context.Context, repo dayRepository[T], owner primitive.ObjectID, day time.Time) (*T, error) {
	rec, err := repo.GetByDate(ctx, owner, day)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}
