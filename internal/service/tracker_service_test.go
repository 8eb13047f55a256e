package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSetCalorieSource(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrackerService(t)
	owner := primitive.NewObjectID()
	day := date(2024, 5, 10)

	rec, err := svc.SetCalorieSource(ctx, owner, day.Add(15*time.Hour), "workout", 1000)
	require.NoError(t, err)
	assert.Equal(t, day, rec.Date, "date is normalized to the calendar day")
	assert.Equal(t, 2000.0, rec.DailyTarget, "default target is substituted")
	assert.Equal(t, 50, rec.ProgressPercentage)
	assert.Equal(t, "Below Target", rec.Status)

	rec, err = svc.SetCalorieSource(ctx, owner, day, "Steps", 600)
	require.NoError(t, err)
	assert.Equal(t, 1600.0, rec.CurrentCalories)
	assert.Equal(t, 80, rec.ProgressPercentage)
	assert.Equal(t, "On Track", rec.Status)

	// Setting a source again replaces its value.
	rec, err = svc.SetCalorieSource(ctx, owner, day, "steps", 1000)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, rec.CurrentCalories)
	assert.Equal(t, "Above Target", rec.Status)

	stored, err := svc.GetCalories(ctx, owner, day)
	require.NoError(t, err)
	assert.Equal(t, rec.CurrentCalories, stored.CurrentCalories)
	assert.Equal(t, map[string]float64{"workout": 1000, "steps": 1000}, stored.Breakdown)
}

func TestSetCalorieSourceValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrackerService(t)
	owner := primitive.NewObjectID()

	_, err := svc.SetCalorieSource(ctx, owner, date(2024, 5, 10), "pizza", 10)
	assert.ErrorIs(t, err, ErrUnknownCalorieSource)

	_, err = svc.SetCalorieSource(ctx, owner, date(2024, 5, 10), "other", -1)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.SetCalorieSource(ctx, primitive.NilObjectID, date(2024, 5, 10), "other", 1)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.SetCalorieTarget(ctx, owner, date(2024, 5, 10), 0)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.GetCalories(ctx, owner, date(2024, 5, 10))
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCalorieWeeklySummary(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrackerService(t)
	owner := primitive.NewObjectID()

	// Day 1 is outside the seven-day window ending on day 9.
	for _, d := range []int{1, 4, 8} {
		_, err := svc.SetCalorieSource(ctx, owner, date(2024, 5, d), "other", 1000)
		require.NoError(t, err)
	}
	_, err := svc.SetCalorieTarget(ctx, owner, date(2024, 5, 9), 2500)
	require.NoError(t, err)
	rec, err := svc.SetCalorieSource(ctx, owner, date(2024, 5, 9), "workout", 2500)
	require.NoError(t, err)

	require.Len(t, rec.WeeklySummary, 3)
	assert.Equal(t, date(2024, 5, 4), rec.WeeklySummary[0].Date)
	assert.Equal(t, date(2024, 5, 8), rec.WeeklySummary[1].Date)
	assert.Equal(t, 50, rec.WeeklySummary[1].ProgressPercentage)
	last := rec.WeeklySummary[2]
	assert.Equal(t, date(2024, 5, 9), last.Date)
	assert.Equal(t, 2500.0, last.Target)
	assert.Equal(t, 100, last.ProgressPercentage)
}

func TestWaterIntakeRollups(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrackerService(t)
	owner := primitive.NewObjectID()

	_, err := svc.AddWaterIntake(ctx, owner, date(2024, 5, 1), 2500, time.Time{})
	require.NoError(t, err)
	_, err = svc.AddWaterIntake(ctx, owner, date(2024, 5, 2), 500, time.Time{})
	require.NoError(t, err)
	_, err = svc.AddWaterIntake(ctx, owner, date(2024, 5, 3), 750, time.Time{})
	require.NoError(t, err)
	rec, err := svc.AddWaterIntake(ctx, owner, date(2024, 5, 3), 250, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, rec.TotalIntake)
	assert.Equal(t, 8, rec.TargetGlasses)
	assert.Equal(t, 4, rec.GlassesConsumed)
	assert.Equal(t, 50, rec.ProgressPercentage)
	assert.Equal(t, "Mildly dehydrated", rec.Status)
	assert.Len(t, rec.Intakes, 2)
	assert.Len(t, rec.WeeklySummary, 3)
	require.NotNil(t, rec.BestDay)
	assert.Equal(t, date(2024, 5, 1), rec.BestDay.Date)
	assert.Equal(t, 1333.33, rec.DailyAverage)
	assert.Equal(t, 3, rec.Streak)

	_, err = svc.AddWaterIntake(ctx, owner, date(2024, 5, 3), 0, time.Time{})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestWaterRollupsSkipTargetOnlyDays(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrackerService(t)
	owner := primitive.NewObjectID()

	_, err := svc.AddWaterIntake(ctx, owner, date(2024, 5, 5), 2000, time.Time{})
	require.NoError(t, err)
	_, err = svc.SetWaterTarget(ctx, owner, date(2024, 5, 6), 2500)
	require.NoError(t, err)
	rec, err := svc.AddWaterIntake(ctx, owner, date(2024, 5, 7), 1000, time.Time{})
	require.NoError(t, err)

	require.Len(t, rec.WeeklySummary, 2)
	assert.Equal(t, date(2024, 5, 5), rec.WeeklySummary[0].Date)
	assert.Equal(t, date(2024, 5, 7), rec.WeeklySummary[1].Date)
	assert.Equal(t, 1500.0, rec.DailyAverage)
	assert.Equal(t, 1, rec.Streak)
}

func TestWaterTargetRecomputesProgress(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrackerService(t)
	owner := primitive.NewObjectID()

	_, err := svc.AddWaterIntake(ctx, owner, date(2024, 5, 1), 1000, time.Time{})
	require.NoError(t, err)
	rec, err := svc.SetWaterTarget(ctx, owner, date(2024, 5, 1), 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, rec.ProgressPercentage)
	assert.Equal(t, "Hydrated", rec.Status)
	assert.Equal(t, 4, rec.TargetGlasses)
}

func TestConcurrentWaterIntakesAreSerialized(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrackerService(t)
	owner := primitive.NewObjectID()
	day := date(2024, 5, 1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddWaterIntake(ctx, owner, day, 100, time.Time{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rec, err := svc.GetWater(ctx, owner, day)
	require.NoError(t, err)
	assert.Len(t, rec.Intakes, 20)
	assert.Equal(t, 2000.0, rec.TotalIntake)
}

func TestLogSleep(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrackerService(t)
	owner := primitive.NewObjectID()

	hours := 6.0
	rec, err := svc.LogSleep(ctx, owner, date(2024, 5, 1), SleepInput{HoursSlept: &hours})
	require.NoError(t, err)
	assert.Equal(t, 8.0, rec.TargetHours)
	assert.Equal(t, 75, rec.ProgressPercentage)
	assert.Equal(t, "Slightly Rested", rec.Status)

	bed := time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC)
	wake := time.Date(2024, 5, 2, 7, 0, 0, 0, time.UTC)
	rec, err = svc.LogSleep(ctx, owner, date(2024, 5, 2), SleepInput{BedTime: &bed, WakeTime: &wake})
	require.NoError(t, err)
	assert.Equal(t, 8.5, rec.HoursSlept)
	assert.Equal(t, "Well Rested", rec.Status)
	assert.Equal(t, 2, rec.Streak)
	assert.Equal(t, 7.25, rec.DailyAverage)
	require.NotNil(t, rec.BestDay)
	assert.Equal(t, date(2024, 5, 2), rec.BestDay.Date)

	quality := 9
	_, err = svc.LogSleep(ctx, owner, date(2024, 5, 2), SleepInput{Quality: &quality})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.LogSleep(ctx, owner, date(2024, 5, 2), SleepInput{BedTime: &wake, WakeTime: &bed})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.GetSleep(ctx, owner, date(2024, 5, 3))
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
