package metrics

import (
	"sort"
	"time"

	"alcyxob/health-tracker/internal/domain"
)

// WeekDays is the length of a weekly rollup window in calendar days.
const WeekDays = 7

// Day returns the calendar day of t as midnight UTC. The wall-clock date of t
// is kept as-is, so rollups never shift a record across a day boundary.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// byDay sums totals that fall on the same calendar day.
func byDay(history []domain.DayTotal) map[time.Time]float64 {
	days := make(map[time.Time]float64, len(history))
	for _, h := range history {
		days[Day(h.Date)] += h.Total
	}
	return days
}

func sortedDays(days map[time.Time]float64) []domain.DayTotal {
	out := make([]domain.DayTotal, 0, len(days))
	for d, v := range days {
		out = append(out, domain.DayTotal{Date: d, Total: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Window returns the days of history inside [anchor-(n-1), anchor], ordered by
// date. Days without a record are absent, not zero.
func Window(history []domain.DayTotal, anchor time.Time, n int) []domain.DayTotal {
	end := Day(anchor)
	start := end.AddDate(0, 0, -(n - 1))
	in := make(map[time.Time]float64)
	for d, v := range byDay(history) {
		if !d.Before(start) && !d.After(end) {
			in[d] = v
		}
	}
	return sortedDays(in)
}

// Sum adds up the totals of days.
func Sum(days []domain.DayTotal) float64 {
	var total float64
	for _, d := range days {
		total += d.Total
	}
	return total
}

// Mean is the arithmetic mean of the days present, rounded to two decimals.
func Mean(days []domain.DayTotal) float64 {
	if len(days) == 0 {
		return 0
	}
	return round2(Sum(days) / float64(len(days)))
}

// Best returns the day with the highest total; the earliest wins a tie.
func Best(history []domain.DayTotal) *domain.DayTotal {
	days := sortedDays(byDay(history))
	if len(days) == 0 {
		return nil
	}
	best := days[0]
	for _, d := range days[1:] {
		if d.Total > best.Total {
			best = d
		}
	}
	return &best
}

// Streak counts consecutive calendar days ending at anchor whose total
// satisfies qualifies. A missing day or a non-qualifying day ends the streak.
func Streak(history []domain.DayTotal, anchor time.Time, qualifies func(total float64) bool) int {
	days := byDay(history)
	streak := 0
	for d := Day(anchor); ; d = d.AddDate(0, 0, -1) {
		total, ok := days[d]
		if !ok || !qualifies(total) {
			return streak
		}
		streak++
	}
}

// Positive is the streak predicate for trackers where zero does not count.
func Positive(total float64) bool { return total > 0 }

// LatestDay returns the most recent day in history, or the zero time.
func LatestDay(history []domain.DayTotal) time.Time {
	var latest time.Time
	for _, h := range history {
		if d := Day(h.Date); d.After(latest) {
			latest = d
		}
	}
	return latest
}

// withCurrent drops any history record on the same day as current and appends
// current, so freshly mutated raw inputs replace their persisted version.
func withCurrent[T any](current T, history []T, dateOf func(T) time.Time) []T {
	day := Day(dateOf(current))
	out := make([]T, 0, len(history)+1)
	for _, h := range history {
		if !Day(dateOf(h)).Equal(day) {
			out = append(out, h)
		}
	}
	return append(out, current)
}
