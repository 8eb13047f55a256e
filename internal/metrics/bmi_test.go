package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBMI(t *testing.T) {
	got, err := DefaultConversion.ComputeBMI(175, UnitCentimeter, 70, UnitKilogram)
	require.NoError(t, err)
	assert.Equal(t, 22.86, got.Value)
	assert.Equal(t, BMINormal, got.Category)
}

func TestComputeBMIConvertsUnitsBeforeDividing(t *testing.T) {
	// 6 ft = 1.8288 m, 200 lbs = 90.7184 kg -> 27.124...
	got, err := DefaultConversion.ComputeBMI(6, UnitFoot, 200, UnitPound)
	require.NoError(t, err)
	assert.Equal(t, 27.12, got.Value)
	assert.Equal(t, BMIOverweight, got.Category)

	mixed, err := DefaultConversion.ComputeBMI(182.88, UnitCentimeter, 200, UnitPound)
	require.NoError(t, err)
	assert.Equal(t, got.Value, mixed.Value)
}

func TestComputeBMIErrors(t *testing.T) {
	_, err := DefaultConversion.ComputeBMI(0, UnitCentimeter, 70, UnitKilogram)
	assert.ErrorIs(t, err, ErrMissingRequiredMeasurement)

	_, err = DefaultConversion.ComputeBMI(175, UnitCentimeter, 0, UnitKilogram)
	assert.ErrorIs(t, err, ErrMissingRequiredMeasurement)

	_, err = DefaultConversion.ComputeBMI(175, "m", 70, UnitKilogram)
	assert.ErrorIs(t, err, ErrInvalidUnit)

	_, err = DefaultConversion.ComputeBMI(175, UnitCentimeter, 70, "g")
	assert.ErrorIs(t, err, ErrInvalidUnit)
}

func TestCategoryForBoundaries(t *testing.T) {
	tests := []struct {
		bmi  float64
		want BMICategory
	}{
		{10, BMIUnderweight},
		{18.49, BMIUnderweight},
		{18.5, BMINormal},
		{24.99, BMINormal},
		{25, BMIOverweight},
		{29.99, BMIOverweight},
		{30, BMIObese},
		{45, BMIObese},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryFor(tt.bmi), "bmi %v", tt.bmi)
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 1.13, round2(1.125))
	assert.Equal(t, -1.13, round2(-1.125))
	assert.Equal(t, 22.86, round2(22.857142))
}
