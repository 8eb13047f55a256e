package dietplan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/lock"
	"alcyxob/health-tracker/internal/metrics"
	"alcyxob/health-tracker/internal/repository"
	"alcyxob/health-tracker/internal/scheduler"
	"alcyxob/health-tracker/internal/storage"
)

var (
	ErrNoBodyStatus    = errors.New("no active body status to base the plan on")
	ErrUnsupportedKind = errors.New("unsupported generation kind")
)

// WorkerConfig controls polling and retries.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int64
	MaxAttempts  int
}

// Worker turns pending generation records into diet plans.
type Worker struct {
	generations  repository.GenerationRepository
	bodyStatuses repository.BodyStatusRepository
	scheduler    *scheduler.Scheduler
	generator    *Generator
	store        storage.ArtifactStorage
	locker       lock.Locker
	cfg          WorkerConfig
}

func NewWorker(
	generations repository.GenerationRepository,
	bodyStatuses repository.BodyStatusRepository,
	sched *scheduler.Scheduler,
	generator *Generator,
	store storage.ArtifactStorage,
	locker lock.Locker,
	cfg WorkerConfig,
) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Worker{
		generations:  generations,
		bodyStatuses: bodyStatuses,
		scheduler:    sched,
		generator:    generator,
		store:        store,
		locker:       locker,
		cfg:          cfg,
	}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("INFO: Generation worker started (poll every %s, batch %d)", w.cfg.PollInterval, w.cfg.BatchSize)
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.ProcessPending(ctx); err != nil && ctx.Err() == nil {
			log.Printf("ERROR: Generation worker pass failed: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Println("INFO: Generation worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessPending handles one batch and returns how many records reached a new state.
func (w *Worker) ProcessPending(ctx context.Context) (int, error) {
	pending, err := w.generations.ListPending(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("listing pending generations: %w", err)
	}
	processed := 0
	for i := range pending {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		ok, err := w.processOne(ctx, pending[i])
		if err != nil {
			log.Printf("ERROR: Generation %s: %v", pending[i].ID.Hex(), err)
			continue
		}
		if ok {
			processed++
		}
	}
	return processed, nil
}

func (w *Worker) processOne(ctx context.Context, rec domain.GenerationRecord) (bool, error) {
	release, err := w.locker.Acquire(ctx, lock.GenerationKey(rec.OwnerID, rec.Kind))
	if err != nil {
		return false, err
	}
	defer release()

	// Another instance may have finished it while we waited.
	current, err := w.generations.GetByID(ctx, rec.ID)
	if err != nil {
		return false, err
	}
	if current.IsTerminal() {
		return false, nil
	}

	payload, genErr := w.generate(ctx, *current)
	var updated domain.GenerationRecord
	if genErr == nil {
		updated, err = w.scheduler.MarkGenerated(*current, payload)
	} else {
		attempts := w.cfg.MaxAttempts
		if isPermanent(genErr) {
			attempts = 1
		}
		log.Printf("WARN: Generation %s attempt %d failed: %v", current.ID.Hex(), current.AttemptCount+1, genErr)
		updated, err = w.scheduler.RecordFailure(*current, genErr, attempts)
	}
	if err != nil {
		return false, err
	}
	if err := w.generations.UpdateStatus(ctx, &updated); err != nil {
		if genErr == nil {
			w.discardArtifact(ctx, payload.ArtifactKey)
		}
		return false, fmt.Errorf("saving generation status: %w", err)
	}
	if updated.Status == domain.GenerationGenerated {
		log.Printf("INFO: Generation %s for owner %s completed", updated.ID.Hex(), updated.OwnerID.Hex())
	}
	return true, nil
}

func (w *Worker) generate(ctx context.Context, rec domain.GenerationRecord) (domain.GenerationPayload, error) {
	if rec.Kind != domain.GenerationDietPlan {
		return domain.GenerationPayload{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, rec.Kind)
	}
	status, err := w.bodyStatuses.GetLatestActive(ctx, rec.OwnerID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.GenerationPayload{}, ErrNoBodyStatus
	}
	if err != nil {
		return domain.GenerationPayload{}, err
	}

	plan, err := w.generator.Generate(*status, w.scheduler.Now())
	if err != nil {
		return domain.GenerationPayload{}, err
	}
	body, err := Encode(plan)
	if err != nil {
		return domain.GenerationPayload{}, err
	}
	key := storage.ArtifactKey(rec.OwnerID.Hex(), string(rec.Kind), "json")
	if err := w.store.PutObject(ctx, key, ContentType, body); err != nil {
		return domain.GenerationPayload{}, fmt.Errorf("uploading plan: %w", err)
	}
	return domain.GenerationPayload{Content: Summary(plan), ArtifactKey: key, ContentType: ContentType}, nil
}

// discardArtifact removes an upload whose record could not be saved. A retry
// uploads under a fresh key.
func (w *Worker) discardArtifact(ctx context.Context, key string) {
	if err := w.store.DeleteObject(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		log.Printf("WARN: Could not delete orphaned artifact %s: %v", key, err)
	}
}

// isPermanent reports failures a retry cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, ErrNoBodyStatus) ||
		errors.Is(err, ErrIncompleteProfile) ||
		errors.Is(err, ErrUnknownActivityLevel) ||
		errors.Is(err, ErrUnsupportedKind) ||
		errors.Is(err, metrics.ErrInvalidUnit)
}
