package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"alcyxob/health-tracker/internal/domain"
)

// Config carries every constant the engine consumes.
type Config struct {
	Conversion  Conversion
	Calories    Thresholds
	Water       Thresholds
	Sleep       Thresholds
	Workout     Thresholds
	GlassSizeMl float64
}

// DefaultConfig returns the standard factors and threshold tables.
func DefaultConfig() Config {
	return Config{
		Conversion:  DefaultConversion,
		Calories:    CalorieThresholds,
		Water:       WaterThresholds,
		Sleep:       SleepThresholds,
		Workout:     WorkoutThresholds,
		GlassSizeMl: 250,
	}
}

// Engine derives summary fields from raw tracker inputs. It holds no mutable
// state; every method takes a snapshot and returns a new one.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Conversion.Validate(); err != nil {
		return nil, err
	}
	tables := map[string]Thresholds{
		"calories": cfg.Calories,
		"water":    cfg.Water,
		"sleep":    cfg.Sleep,
		"workout":  cfg.Workout,
	}
	for name, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s thresholds: %w", name, err)
		}
	}
	if cfg.GlassSizeMl <= 0 {
		return nil, fmt.Errorf("glass size must be positive, got %v", cfg.GlassSizeMl)
	}
	return &Engine{cfg: cfg}, nil
}

// Conversion exposes the configured unit factors.
func (e *Engine) Conversion() Conversion { return e.cfg.Conversion }

// DeriveBodyStatus recomputes BMI. Without both height and weight the BMI is cleared.
func (e *Engine) DeriveBodyStatus(s domain.BodyStatus) (domain.BodyStatus, error) {
	if s.Height == nil || s.Weight == nil {
		s.BMI = nil
		return s, nil
	}
	bmi, err := e.cfg.Conversion.ComputeBMI(s.Height.Value, Unit(s.Height.Unit), s.Weight.Value, Unit(s.Weight.Unit))
	if err != nil {
		return s, err
	}
	s.BMI = &domain.BMI{Value: bmi.Value, Category: string(bmi.Category)}
	return s, nil
}

// --- Calories ---

// sumBreakdown adds sources in key order so the float sum is reproducible.
func sumBreakdown(breakdown map[string]float64) float64 {
	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var total float64
	for _, k := range keys {
		total += breakdown[k]
	}
	return total
}

// DeriveCalories recomputes currentCalories, progress and the weekly summary.
// history holds the owner's other days; a same-day entry in history is ignored.
func (e *Engine) DeriveCalories(rec domain.CalorieRecord, history []domain.CalorieRecord) (domain.CalorieRecord, error) {
	rec.Date = Day(rec.Date)
	rec.CurrentCalories = sumBreakdown(rec.Breakdown)
	p, err := Evaluate(rec.CurrentCalories, rec.DailyTarget, e.cfg.Calories)
	if err != nil {
		return rec, err
	}
	rec.ProgressPercentage = p.Percentage
	rec.Status = p.Status

	start := rec.Date.AddDate(0, 0, -(WeekDays - 1))
	all := withCurrent(rec, history, func(r domain.CalorieRecord) time.Time { return r.Date })
	summary := make([]domain.DailySummary, 0, WeekDays)
	for _, h := range all {
		day := Day(h.Date)
		if len(h.Breakdown) == 0 || day.Before(start) || day.After(rec.Date) {
			continue
		}
		total := sumBreakdown(h.Breakdown)
		s := domain.DailySummary{Date: day, Total: total, Target: h.DailyTarget}
		if hp, err := Evaluate(total, h.DailyTarget, e.cfg.Calories); err == nil {
			s.ProgressPercentage = hp.Percentage
			s.Status = hp.Status
		}
		summary = append(summary, s)
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].Date.Before(summary[j].Date) })
	rec.WeeklySummary = summary
	return rec, nil
}

// --- Water ---

func sumIntakes(intakes []domain.WaterIntake) float64 {
	var total float64
	for _, in := range intakes {
		total += in.AmountMl
	}
	return total
}

// DeriveWater recomputes intake totals, glasses, progress and the rollups.
// Days without intakes are left out of the rollups.
func (e *Engine) DeriveWater(rec domain.WaterRecord, history []domain.WaterRecord) (domain.WaterRecord, error) {
	rec.Date = Day(rec.Date)
	rec.TotalIntake = sumIntakes(rec.Intakes)
	rec.TargetGlasses = int(math.Ceil(rec.TargetMl / e.cfg.GlassSizeMl))
	rec.GlassesConsumed = int(math.Floor(rec.TotalIntake / e.cfg.GlassSizeMl))
	p, err := Evaluate(rec.TotalIntake, rec.TargetMl, e.cfg.Water)
	if err != nil {
		return rec, err
	}
	rec.ProgressPercentage = p.Percentage
	rec.Status = p.Status

	all := withCurrent(rec, history, func(r domain.WaterRecord) time.Time { return r.Date })
	days := make([]domain.DayTotal, 0, len(all))
	for _, h := range all {
		if len(h.Intakes) == 0 {
			continue
		}
		days = append(days, domain.DayTotal{Date: h.Date, Total: sumIntakes(h.Intakes)})
	}
	rec.WeeklySummary = Window(days, rec.Date, WeekDays)
	rec.BestDay = Best(days)
	rec.DailyAverage = Mean(sortedDays(byDay(days)))
	rec.Streak = Streak(days, rec.Date, Positive)
	return rec, nil
}

// --- Sleep ---

// hoursSlept prefers the bed/wake interval when both are known.
func hoursSlept(r domain.SleepRecord) float64 {
	if r.BedTime != nil && r.WakeTime != nil && r.WakeTime.After(*r.BedTime) {
		return round2(r.WakeTime.Sub(*r.BedTime).Hours())
	}
	return r.HoursSlept
}

// sleepLogged is false for a day that only carries a target.
func sleepLogged(r domain.SleepRecord) bool {
	return r.HoursSlept > 0 || (r.BedTime != nil && r.WakeTime != nil)
}

// DeriveSleep recomputes hours slept, progress and the rollups.
func (e *Engine) DeriveSleep(rec domain.SleepRecord, history []domain.SleepRecord) (domain.SleepRecord, error) {
	rec.Date = Day(rec.Date)
	rec.HoursSlept = hoursSlept(rec)
	p, err := Evaluate(rec.HoursSlept, rec.TargetHours, e.cfg.Sleep)
	if err != nil {
		return rec, err
	}
	rec.ProgressPercentage = p.Percentage
	rec.Status = p.Status

	all := withCurrent(rec, history, func(r domain.SleepRecord) time.Time { return r.Date })
	days := make([]domain.DayTotal, 0, len(all))
	for _, h := range all {
		if !sleepLogged(h) {
			continue
		}
		days = append(days, domain.DayTotal{Date: h.Date, Total: hoursSlept(h)})
	}
	rec.WeeklySummary = Window(days, rec.Date, WeekDays)
	rec.BestDay = Best(days)
	rec.DailyAverage = Mean(sortedDays(byDay(days)))
	rec.Streak = Streak(days, rec.Date, Positive)
	return rec, nil
}

// --- Workout ---

func normalizeWorkoutType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// DeriveWorkout recomputes day totals, progress, the weekly window, the
// per-type summary and the streak.
func (e *Engine) DeriveWorkout(rec domain.WorkoutRecord, history []domain.WorkoutRecord) (domain.WorkoutRecord, error) {
	rec.Date = Day(rec.Date)
	rec.TotalWorkoutTime, rec.TotalCaloriesBurned = 0, 0
	for _, entry := range rec.Entries {
		rec.TotalWorkoutTime += entry.Duration
		rec.TotalCaloriesBurned += entry.Calories
	}
	p, err := Evaluate(rec.TotalWorkoutTime, rec.TargetMinutes, e.cfg.Workout)
	if err != nil {
		return rec, err
	}
	rec.ProgressPercentage = p.Percentage
	rec.Status = p.Status

	start := rec.Date.AddDate(0, 0, -(WeekDays - 1))
	all := withCurrent(rec, history, func(r domain.WorkoutRecord) time.Time { return r.Date })
	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })

	weekly := domain.WorkoutWeeklySummary{Days: []domain.WorkoutDay{}}
	byType := make(map[string]*domain.WorkoutTypeSummary)
	counts := make([]domain.DayTotal, 0, len(all))
	for _, h := range all {
		if len(h.Entries) == 0 {
			continue
		}
		day := Day(h.Date)
		counts = append(counts, domain.DayTotal{Date: day, Total: float64(len(h.Entries))})
		if day.Before(start) || day.After(rec.Date) {
			continue
		}
		wd := domain.WorkoutDay{Date: day}
		for _, entry := range h.Entries {
			wd.Time += entry.Duration
			wd.Calories += entry.Calories

			key := normalizeWorkoutType(entry.Type)
			ts, ok := byType[key]
			if !ok {
				ts = &domain.WorkoutTypeSummary{Type: key}
				byType[key] = ts
			}
			ts.TotalTime += entry.Duration
			ts.TotalCalories += entry.Calories
			ts.Count++
			if entry.Distance != nil {
				km, err := e.cfg.Conversion.ToCanonical(entry.Distance.Value, Unit(entry.Distance.Unit), KindDistance)
				if err != nil {
					return rec, err
				}
				ts.TotalDistanceKm += km
			}
		}
		weekly.TotalWeeklyTime += wd.Time
		weekly.TotalWeeklyCalories += wd.Calories
		weekly.Days = append(weekly.Days, wd)
	}
	rec.WeeklySummary = weekly

	types := make([]domain.WorkoutTypeSummary, 0, len(byType))
	for _, ts := range byType {
		ts.AverageTime = round2(ts.TotalTime / float64(ts.Count))
		ts.AverageCalories = round2(ts.TotalCalories / float64(ts.Count))
		ts.TotalDistanceKm = round2(ts.TotalDistanceKm)
		types = append(types, *ts)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Type < types[j].Type })
	rec.TypeSummary = types

	rec.Streak = Streak(counts, rec.Date, func(n float64) bool { return n >= 1 })
	return rec, nil
}
