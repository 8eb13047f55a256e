package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurement is a raw value together with the unit it was submitted in.
type Measurement struct {
	Value float64 `bson:"value" json:"value"`
	Unit  string  `bson:"unit" json:"unit"` // "cm"/"ft" for height, "kg"/"lbs" for weight
}

// BMI is derived from height and weight. Never set it directly.
type BMI struct {
	Value    float64 `bson:"value" json:"value"`
	Category string  `bson:"category" json:"category"`
}

// BodyMeasurements holds optional circumference measurements in centimeters.
type BodyMeasurements struct {
	Chest  *float64 `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist  *float64 `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips   *float64 `bson:"hips,omitempty" json:"hips,omitempty"`
	Arms   *float64 `bson:"arms,omitempty" json:"arms,omitempty"`
	Thighs *float64 `bson:"thighs,omitempty" json:"thighs,omitempty"`
}

// BodyStatus is a snapshot of a user's body metrics, created on every measurement submission.
type BodyStatus struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID         primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Age             *int               `bson:"age,omitempty" json:"age,omitempty"`
	Gender          string             `bson:"gender,omitempty" json:"gender,omitempty"` // "male", "female", "other"
	ActivityLevel   string             `bson:"activityLevel,omitempty" json:"activityLevel,omitempty"`
	Height          *Measurement       `bson:"height,omitempty" json:"height,omitempty"`
	Weight          *Measurement       `bson:"weight,omitempty" json:"weight,omitempty"`
	Measurements    *BodyMeasurements  `bson:"measurements,omitempty" json:"measurements,omitempty"`
	BMI             *BMI               `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BodyFat         *float64           `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`
	MeasurementDate time.Time          `bson:"measurementDate" json:"measurementDate"`
	IsActive        bool               `bson:"isActive" json:"isActive"` // false once soft-deleted
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
