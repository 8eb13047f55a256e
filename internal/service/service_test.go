package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"alcyxob/health-tracker/internal/lock"
	"alcyxob/health-tracker/internal/metrics"
	"alcyxob/health-tracker/internal/repository/memory"
)

func testEngine(t *testing.T) *metrics.Engine {
	t.Helper()
	engine, err := metrics.NewEngine(metrics.DefaultConfig())
	require.NoError(t, err)
	return engine
}

var testOptions = TrackerOptions{
	HistoryDays: 30,
	Defaults:    DefaultTargets{Calories: 2000, WaterMl: 2000, SleepHours: 8, WorkoutMinutes: 30},
}

func newTestTrackerService(t *testing.T) TrackerService {
	return NewTrackerService(
		memory.NewCalorieRepository(),
		memory.NewWaterRepository(),
		memory.NewSleepRepository(),
		testEngine(t),
		lock.NewMemoryLocker(),
		testOptions,
	)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
