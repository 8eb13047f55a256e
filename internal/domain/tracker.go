package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackerKind names a per-day tracker. Records are unique per (owner, kind, date).
type TrackerKind string

const (
	TrackerCalories TrackerKind = "calories"
	TrackerWater    TrackerKind = "water"
	TrackerSleep    TrackerKind = "sleep"
	TrackerWorkout  TrackerKind = "workout"
)

// DailySummary is one day of a target-tracking weekly summary.
type DailySummary struct {
	Date               time.Time `bson:"date" json:"date"`
	Total              float64   `bson:"total" json:"total"`
	Target             float64   `bson:"target" json:"target"`
	ProgressPercentage int       `bson:"progressPercentage" json:"progressPercentage"`
	Status             string    `bson:"status" json:"status"`
}

// DayTotal is one day of a plain rollup.
type DayTotal struct {
	Date  time.Time `bson:"date" json:"date"`
	Total float64   `bson:"total" json:"total"`
}

// CalorieRecord tracks a single day of calories per source (workout, steps, other).
type CalorieRecord struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID            primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Date               time.Time          `bson:"date" json:"date"`
	DailyTarget        float64            `bson:"dailyTarget" json:"dailyTarget"`
	Breakdown          map[string]float64 `bson:"breakdown" json:"breakdown"`
	CurrentCalories    float64            `bson:"currentCalories" json:"currentCalories"`
	ProgressPercentage int                `bson:"progressPercentage" json:"progressPercentage"`
	Status             string             `bson:"status" json:"status"`
	WeeklySummary      []DailySummary     `bson:"weeklySummary,omitempty" json:"weeklySummary,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WaterIntake is a single logged drink.
type WaterIntake struct {
	AmountMl float64   `bson:"amountMl" json:"amountMl"`
	LoggedAt time.Time `bson:"loggedAt" json:"loggedAt"`
}

// WaterRecord tracks a single day of hydration.
type WaterRecord struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID            primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Date               time.Time          `bson:"date" json:"date"`
	TargetMl           float64            `bson:"targetMl" json:"targetMl"`
	TargetGlasses      int                `bson:"targetGlasses" json:"targetGlasses"`
	Intakes            []WaterIntake      `bson:"intakes" json:"intakes"`
	TotalIntake        float64            `bson:"totalIntake" json:"totalIntake"`
	GlassesConsumed    int                `bson:"glassesConsumed" json:"glassesConsumed"`
	ProgressPercentage int                `bson:"progressPercentage" json:"progressPercentage"`
	Status             string             `bson:"status" json:"status"`
	WeeklySummary      []DayTotal         `bson:"weeklySummary,omitempty" json:"weeklySummary,omitempty"`
	BestDay            *DayTotal          `bson:"bestDay,omitempty" json:"bestDay,omitempty"`
	DailyAverage       float64            `bson:"dailyAverage" json:"dailyAverage"`
	Streak             int                `bson:"streak" json:"streak"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SleepRecord tracks a single night, keyed by the date the user woke up.
type SleepRecord struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID            primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Date               time.Time          `bson:"date" json:"date"`
	BedTime            *time.Time         `bson:"bedTime,omitempty" json:"bedTime,omitempty"`
	WakeTime           *time.Time         `bson:"wakeTime,omitempty" json:"wakeTime,omitempty"`
	HoursSlept         float64            `bson:"hoursSlept" json:"hoursSlept"`
	Quality            int                `bson:"quality,omitempty" json:"quality,omitempty"` // 1-5, optional
	TargetHours        float64            `bson:"targetHours" json:"targetHours"`
	ProgressPercentage int                `bson:"progressPercentage" json:"progressPercentage"`
	Status             string             `bson:"status" json:"status"`
	WeeklySummary      []DayTotal         `bson:"weeklySummary,omitempty" json:"weeklySummary,omitempty"`
	BestDay            *DayTotal          `bson:"bestDay,omitempty" json:"bestDay,omitempty"`
	DailyAverage       float64            `bson:"dailyAverage" json:"dailyAverage"`
	Streak             int                `bson:"streak" json:"streak"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
