package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/metrics"
	"alcyxob/health-tracker/internal/repository/memory"
)

func TestRecordBodyStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewBodyStatusService(memory.NewBodyStatusRepository(), testEngine(t))
	owner := primitive.NewObjectID()

	age := 30
	status, err := svc.RecordBodyStatus(ctx, owner, domain.BodyStatus{
		Age:             &age,
		Gender:          "Male",
		Height:          &domain.Measurement{Value: 180, Unit: "CM"},
		Weight:          &domain.Measurement{Value: 81, Unit: "kg"},
		MeasurementDate: date(2024, 5, 1),
	})
	require.NoError(t, err)
	require.NotNil(t, status.BMI)
	assert.Equal(t, 25.0, status.BMI.Value)
	assert.Equal(t, string(metrics.BMIOverweight), status.BMI.Category)
	assert.Equal(t, "male", status.Gender)
	assert.Equal(t, "cm", status.Height.Unit)
	assert.True(t, status.IsActive)
	assert.False(t, status.ID.IsZero())

	// Without weight the snapshot is stored with no BMI.
	second, err := svc.RecordBodyStatus(ctx, owner, domain.BodyStatus{
		Height:          &domain.Measurement{Value: 6, Unit: "ft"},
		MeasurementDate: date(2024, 5, 2),
	})
	require.NoError(t, err)
	assert.Nil(t, second.BMI)

	latest, err := svc.GetLatest(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	require.NoError(t, svc.DeleteBodyStatus(ctx, owner, second.ID))
	latest, err = svc.GetLatest(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, status.ID, latest.ID)

	assert.ErrorIs(t, svc.DeleteBodyStatus(ctx, primitive.NewObjectID(), status.ID), ErrRecordNotFound)

	history, err := svc.ListHistory(ctx, owner, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRecordBodyStatusValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewBodyStatusService(memory.NewBodyStatusRepository(), testEngine(t))
	owner := primitive.NewObjectID()

	_, err := svc.RecordBodyStatus(ctx, owner, domain.BodyStatus{Height: &domain.Measurement{Value: 170, Unit: "in"}})
	assert.ErrorIs(t, err, metrics.ErrInvalidUnit)

	_, err = svc.RecordBodyStatus(ctx, owner, domain.BodyStatus{Weight: &domain.Measurement{Value: -2, Unit: "kg"}})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.RecordBodyStatus(ctx, owner, domain.BodyStatus{Gender: "robot"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.GetLatest(ctx, owner)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
