package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/lock"
	"alcyxob/health-tracker/internal/repository"
	"alcyxob/health-tracker/internal/scheduler"
	"alcyxob/health-tracker/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationService gates diet plan generation behind the cooldown.
type GenerationService interface {
	CheckEligibility(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (scheduler.Eligibility, error)
	// CreateGeneration writes a pending record after re-validating the cooldown.
	// Prefer RequestGeneration, which also serializes per owner.
	CreateGeneration(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error)
	RequestGeneration(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error)
	GetLatest(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error)
}

type generationService struct {
	generationRepo repository.GenerationRepository
	scheduler      *scheduler.Scheduler
	locker         lock.Locker
	store          storage.ArtifactStorage
	urlExpiry      time.Duration
}

func NewGenerationService(
	generationRepo repository.GenerationRepository,
	sched *scheduler.Scheduler,
	locker lock.Locker,
	store storage.ArtifactStorage,
	urlExpiry time.Duration,
) GenerationService {
	return &generationService{
		generationRepo: generationRepo,
		scheduler:      sched,
		locker:         locker,
		store:          store,
		urlExpiry:      urlExpiry,
	}
}

// latest returns the newest record of the timeline, or nil without history.
func (s *generationService) latest(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error) {
	last, err := s.generationRepo.GetLatest(ctx, ownerID, kind)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return last, err
}

func (s *generationService) CheckEligibility(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (scheduler.Eligibility, error) {
	last, err := s.latest(ctx, ownerID, kind)
	if err != nil {
		return scheduler.Eligibility{}, err
	}
	return s.scheduler.Check(last), nil
}

func (s *generationService) CreateGeneration(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error) {
	if ownerID == primitive.NilObjectID || kind == "" {
		return nil, fmt.Errorf("%w: owner and kind are required", ErrValidationFailed)
	}
	last, err := s.latest(ctx, ownerID, kind)
	if err != nil {
		return nil, err
	}
	if err := s.scheduler.Revalidate(last); err != nil {
		return nil, err
	}

	rec := s.scheduler.NewRecord(ownerID, kind)
	if _, err := s.generationRepo.Create(ctx, &rec); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrGenerationInProgress
		}
		return nil, err
	}
	log.Printf("INFO: Generation %s (%s) queued for owner %s, next eligible %s",
		rec.ID.Hex(), kind, ownerID.Hex(), rec.NextGenerationDate.Format(time.RFC3339))
	return &rec, nil
}

// RequestGeneration runs check and create as one unit under the owner's generation lock.
func (s *generationService) RequestGeneration(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error) {
	release, err := s.locker.Acquire(ctx, lock.GenerationKey(ownerID, kind))
	if err != nil {
		return nil, err
	}
	defer release()

	eligibility, err := s.CheckEligibility(ctx, ownerID, kind)
	if err != nil {
		return nil, err
	}
	if !eligibility.CanGenerate {
		if last := eligibility.LastGeneration; last != nil && last.Status == domain.GenerationPending {
			return nil, ErrGenerationInProgress
		}
		return nil, fmt.Errorf("%w: %d day(s) remaining", ErrCoolingDown, eligibility.RemainingDays)
	}
	return s.CreateGeneration(ctx, ownerID, kind)
}

// GetLatest returns the authoritative record with a fresh artifact link.
func (s *generationService) GetLatest(ctx context.Context, ownerID primitive.ObjectID, kind domain.GenerationKind) (*domain.GenerationRecord, error) {
	last, err := s.latest(ctx, ownerID, kind)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, ErrRecordNotFound
	}
	if last.Payload != nil && last.Payload.ArtifactKey != "" && s.store != nil {
		url, err := s.store.GeneratePresignedDownloadURL(ctx, last.Payload.ArtifactKey, s.urlExpiry)
		if err != nil {
			// The inline content is still useful without the link.
			log.Printf("WARN: Could not presign artifact %s: %v", last.Payload.ArtifactKey, err)
		} else {
			last.Payload.ArtifactURL = url
		}
	}
	return last, nil
}
