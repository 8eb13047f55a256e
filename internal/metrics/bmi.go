package metrics

import (
	"fmt"
	"math"
)

// BMICategory is one of the four standard weight classes.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// BMIResult is a computed body mass index.
type BMIResult struct {
	Value    float64
	Category BMICategory
}

// CategoryFor classifies a BMI value. Lower bounds are inclusive.
func CategoryFor(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// ComputeBMI returns weight(kg) / height(m)^2 rounded to two decimals.
func (c Conversion) ComputeBMI(height float64, heightUnit Unit, weight float64, weightUnit Unit) (BMIResult, error) {
	if height <= 0 || weight <= 0 {
		return BMIResult{}, fmt.Errorf("%w: height=%v weight=%v", ErrMissingRequiredMeasurement, height, weight)
	}
	heightCm, err := c.ToCanonical(height, heightUnit, KindLength)
	if err != nil {
		return BMIResult{}, err
	}
	weightKg, err := c.ToCanonical(weight, weightUnit, KindMass)
	if err != nil {
		return BMIResult{}, err
	}

	heightM := heightCm / 100
	value := round2(weightKg / (heightM * heightM))
	return BMIResult{Value: value, Category: CategoryFor(value)}, nil
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
