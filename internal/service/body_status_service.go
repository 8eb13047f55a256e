package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/metrics"
	"alcyxob/health-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultBodyStatusHistory caps history listings when the caller passes no limit.
const DefaultBodyStatusHistory = 50

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

// BodyStatusService records body measurement snapshots.
type BodyStatusService interface {
	RecordBodyStatus(ctx context.Context, ownerID primitive.ObjectID, status domain.BodyStatus) (*domain.BodyStatus, error)
	GetLatest(ctx context.Context, ownerID primitive.ObjectID) (*domain.BodyStatus, error)
	ListHistory(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.BodyStatus, error)
	DeleteBodyStatus(ctx context.Context, ownerID, statusID primitive.ObjectID) error
}

type bodyStatusService struct {
	bodyStatusRepo repository.BodyStatusRepository
	engine         *metrics.Engine
}

func NewBodyStatusService(bodyStatusRepo repository.BodyStatusRepository, engine *metrics.Engine) BodyStatusService {
	return &bodyStatusService{bodyStatusRepo: bodyStatusRepo, engine: engine}
}

func normalizeMeasurement(m *domain.Measurement, conv metrics.Conversion, kind metrics.Kind) error {
	if m == nil {
		return nil
	}
	if m.Value <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrValidationFailed, kind)
	}
	m.Unit = string(metrics.ParseUnit(m.Unit))
	_, err := conv.ToCanonical(m.Value, metrics.Unit(m.Unit), kind)
	return err
}

// RecordBodyStatus validates the snapshot, derives BMI and stores it as the newest active snapshot.
func (s *bodyStatusService) RecordBodyStatus(ctx context.Context, ownerID primitive.ObjectID, status domain.BodyStatus) (*domain.BodyStatus, error) {
	if ownerID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: owner is required", ErrValidationFailed)
	}
	if status.Age != nil && (*status.Age <= 0 || *status.Age > 130) {
		return nil, fmt.Errorf("%w: age must be between 1 and 130", ErrValidationFailed)
	}
	status.Gender = strings.ToLower(strings.TrimSpace(status.Gender))
	if status.Gender != "" && !validGenders[status.Gender] {
		return nil, fmt.Errorf("%w: unknown gender %q", ErrValidationFailed, status.Gender)
	}
	status.ActivityLevel = strings.ToLower(strings.TrimSpace(status.ActivityLevel))
	if status.BodyFat != nil && (*status.BodyFat < 0 || *status.BodyFat > 100) {
		return nil, fmt.Errorf("%w: bodyFat must be a percentage", ErrValidationFailed)
	}
	conv := s.engine.Conversion()
	if err := normalizeMeasurement(status.Height, conv, metrics.KindLength); err != nil {
		return nil, err
	}
	if err := normalizeMeasurement(status.Weight, conv, metrics.KindMass); err != nil {
		return nil, err
	}

	status.ID = primitive.NilObjectID
	status.OwnerID = ownerID
	status.IsActive = true
	if status.MeasurementDate.IsZero() {
		status.MeasurementDate = time.Now().UTC()
	}

	derived, err := s.engine.DeriveBodyStatus(status)
	if err != nil {
		return nil, err
	}
	if _, err := s.bodyStatusRepo.Create(ctx, &derived); err != nil {
		return nil, err
	}
	return &derived, nil
}

func (s *bodyStatusService) GetLatest(ctx context.Context, ownerID primitive.ObjectID) (*domain.BodyStatus, error) {
	status, err := s.bodyStatusRepo.GetLatestActive(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return status, nil
}

func (s *bodyStatusService) ListHistory(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.BodyStatus, error) {
	if limit <= 0 {
		limit = DefaultBodyStatusHistory
	}
	return s.bodyStatusRepo.ListActive(ctx, ownerID, limit)
}

// DeleteBodyStatus soft-deletes one of the owner's snapshots.
func (s *bodyStatusService) DeleteBodyStatus(ctx context.Context, ownerID, statusID primitive.ObjectID) error {
	err := s.bodyStatusRepo.Deactivate(ctx, statusID, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRecordNotFound
	}
	return err
}
