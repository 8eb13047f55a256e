package dietplan

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/lock"
	"alcyxob/health-tracker/internal/metrics"
	"alcyxob/health-tracker/internal/repository"
	"alcyxob/health-tracker/internal/repository/memory"
	"alcyxob/health-tracker/internal/scheduler"
	"alcyxob/health-tracker/internal/storage"
)

type failingStorage struct {
	*storage.MemoryStorage
}

func (failingStorage) PutObject(context.Context, string, string, []byte) error {
	return errors.New("bucket unavailable")
}

type workerFixture struct {
	worker       *Worker
	generations  *memory.GenerationRepository
	bodyStatuses *memory.BodyStatusRepository
	sched        *scheduler.Scheduler
}

func newWorkerFixture(store storage.ArtifactStorage) workerFixture {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	sched := scheduler.New(0, func() time.Time { return now })
	generations := memory.NewGenerationRepository()
	bodyStatuses := memory.NewBodyStatusRepository()
	w := NewWorker(generations, bodyStatuses, sched, NewGenerator(metrics.DefaultConversion), store,
		lock.NewMemoryLocker(), WorkerConfig{PollInterval: time.Millisecond, BatchSize: 5, MaxAttempts: 3})
	return workerFixture{worker: w, generations: generations, bodyStatuses: bodyStatuses, sched: sched}
}

func (f workerFixture) queue(t *testing.T, owner primitive.ObjectID) domain.GenerationRecord {
	t.Helper()
	rec := f.sched.NewRecord(owner, domain.GenerationDietPlan)
	_, err := f.generations.Create(context.Background(), &rec)
	require.NoError(t, err)
	return rec
}

func (f workerFixture) addBodyStatus(t *testing.T, owner primitive.ObjectID) {
	t.Helper()
	s := sampleStatus()
	s.OwnerID = owner
	s.IsActive = true
	_, err := f.bodyStatuses.Create(context.Background(), &s)
	require.NoError(t, err)
}

func TestWorkerGeneratesPlan(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage("http://local", nil)
	f := newWorkerFixture(store)
	owner := primitive.NewObjectID()
	f.addBodyStatus(t, owner)
	rec := f.queue(t, owner)

	n, err := f.worker.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.generations.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationGenerated, got.Status)
	require.NotNil(t, got.Payload)
	assert.Equal(t, ContentType, got.Payload.ContentType)
	assert.Contains(t, got.Payload.Content, "2588 kcal/day")
	assert.Equal(t, rec.NextGenerationDate, got.NextGenerationDate)

	body, ct, ok := store.Object(got.Payload.ArtifactKey)
	require.True(t, ok)
	assert.Equal(t, ContentType, ct)
	var plan Plan
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Equal(t, 2588, plan.DailyCalories)

	// Nothing left to do.
	n, err = f.worker.ProcessPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWorkerFailsWithoutBodyStatus(t *testing.T) {
	ctx := context.Background()
	f := newWorkerFixture(storage.NewMemoryStorage("http://local", nil))
	rec := f.queue(t, primitive.NewObjectID())

	_, err := f.worker.ProcessPending(ctx)
	require.NoError(t, err)

	got, err := f.generations.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationFailed, got.Status)
	assert.Equal(t, 1, got.AttemptCount)
	assert.Equal(t, ErrNoBodyStatus.Error(), got.ErrorMessage)
}

func TestWorkerRetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	f := newWorkerFixture(failingStorage{storage.NewMemoryStorage("http://local", nil)})
	owner := primitive.NewObjectID()
	f.addBodyStatus(t, owner)
	rec := f.queue(t, owner)

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := f.worker.ProcessPending(ctx)
		require.NoError(t, err)
		got, err := f.generations.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, attempt, got.AttemptCount)
		if attempt < 3 {
			assert.Equal(t, domain.GenerationPending, got.Status)
		} else {
			assert.Equal(t, domain.GenerationFailed, got.Status)
			assert.Contains(t, got.ErrorMessage, "bucket unavailable")
		}
	}
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	f := newWorkerFixture(storage.NewMemoryStorage("http://local", nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.worker.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

// staleGenerations loses every status update, as when the record changed underneath the worker.
type staleGenerations struct {
	*memory.GenerationRepository
}

func (staleGenerations) UpdateStatus(context.Context, *domain.GenerationRecord) error {
	return repository.ErrNotFound
}

type recordingStorage struct {
	*storage.MemoryStorage
	keys []string
}

func (s *recordingStorage) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	s.keys = append(s.keys, key)
	return s.MemoryStorage.PutObject(ctx, key, contentType, body)
}

func TestWorkerDeletesArtifactWhenStatusCannotBeSaved(t *testing.T) {
	ctx := context.Background()
	store := &recordingStorage{MemoryStorage: storage.NewMemoryStorage("http://local", nil)}
	f := newWorkerFixture(store)
	f.worker = NewWorker(staleGenerations{f.generations}, f.bodyStatuses, f.sched, NewGenerator(metrics.DefaultConversion),
		store, lock.NewMemoryLocker(), WorkerConfig{BatchSize: 5, MaxAttempts: 3})
	owner := primitive.NewObjectID()
	f.addBodyStatus(t, owner)
	rec := f.queue(t, owner)

	for pass := 0; pass < 2; pass++ {
		n, err := f.worker.ProcessPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}

	require.Len(t, store.keys, 2)
	assert.NotEqual(t, store.keys[0], store.keys[1])
	for _, key := range store.keys {
		_, _, ok := store.Object(key)
		assert.False(t, ok, "artifact %s should have been removed", key)
	}

	got, err := f.generations.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationPending, got.Status)
}
