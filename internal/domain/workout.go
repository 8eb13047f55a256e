package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutEntry is a single logged workout session.
type WorkoutEntry struct {
	Type      string       `bson:"workoutType" json:"workoutType"` // e.g., "running", "cycling", "strength"
	Intensity string       `bson:"intensity,omitempty" json:"intensity,omitempty"`
	Distance  *Measurement `bson:"distance,omitempty" json:"distance,omitempty"` // "km" or "mi"
	Duration  float64      `bson:"duration" json:"duration"`                     // minutes
	Calories  float64      `bson:"calories" json:"calories"`
	Date      time.Time    `bson:"date" json:"date"`
}

// WorkoutDay is one day of the weekly workout rollup.
type WorkoutDay struct {
	Date     time.Time `bson:"date" json:"date"`
	Time     float64   `bson:"time" json:"time"`
	Calories float64   `bson:"calories" json:"calories"`
}

// WorkoutWeeklySummary rolls up the trailing seven calendar days.
type WorkoutWeeklySummary struct {
	TotalWeeklyTime     float64      `bson:"totalWeeklyTime" json:"totalWeeklyTime"`
	TotalWeeklyCalories float64      `bson:"totalWeeklyCalories" json:"totalWeeklyCalories"`
	Days                []WorkoutDay `bson:"days" json:"days"`
}

// WorkoutTypeSummary aggregates the weekly window per workout type.
type WorkoutTypeSummary struct {
	Type            string  `bson:"workoutType" json:"workoutType"`
	TotalTime       float64 `bson:"totalTime" json:"totalTime"`
	TotalCalories   float64 `bson:"totalCalories" json:"totalCalories"`
	TotalDistanceKm float64 `bson:"totalDistanceKm" json:"totalDistanceKm"`
	Count           int     `bson:"count" json:"count"`
	AverageTime     float64 `bson:"averageTime" json:"averageTime"`
	AverageCalories float64 `bson:"averageCalories" json:"averageCalories"`
}

// WorkoutRecord tracks a single day of workouts.
type WorkoutRecord struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OwnerID             primitive.ObjectID   `bson:"ownerId" json:"ownerId"`
	Date                time.Time            `bson:"date" json:"date"`
	Entries             []WorkoutEntry       `bson:"entries" json:"entries"`
	TargetMinutes       float64              `bson:"targetMinutes" json:"targetMinutes"`
	TotalWorkoutTime    float64              `bson:"totalWorkoutTime" json:"totalWorkoutTime"`
	TotalCaloriesBurned float64              `bson:"totalCaloriesBurned" json:"totalCaloriesBurned"`
	ProgressPercentage  int                  `bson:"progressPercentage" json:"progressPercentage"`
	Status              string               `bson:"status" json:"status"`
	WeeklySummary       WorkoutWeeklySummary `bson:"weeklySummary" json:"weeklySummary"`
	TypeSummary         []WorkoutTypeSummary `bson:"typeSummary,omitempty" json:"typeSummary,omitempty"`
	Streak              int                  `bson:"streak" json:"streak"`
	CreatedAt           time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time            `bson:"updatedAt" json:"updatedAt"`
}
