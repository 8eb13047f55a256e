package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCanonical(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  Unit
		kind  Kind
		want  float64
	}{
		{"cm is canonical", 175, UnitCentimeter, KindLength, 175},
		{"feet to cm", 6, UnitFoot, KindLength, 182.88},
		{"kg is canonical", 70, UnitKilogram, KindMass, 70},
		{"pounds to kg", 100, UnitPound, KindMass, 45.3592},
		{"km is canonical", 5, UnitKilometer, KindDistance, 5},
		{"miles to km", 1, UnitMile, KindDistance, 1.609344},
		{"unit is case insensitive", 2, Unit(" KG "), KindMass, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultConversion.ToCanonical(tt.value, tt.unit, tt.kind)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestToCanonicalInvalidUnit(t *testing.T) {
	tests := []struct {
		unit Unit
		kind Kind
	}{
		{UnitKilogram, KindLength},
		{UnitCentimeter, KindMass},
		{"stone", KindMass},
		{"", KindLength},
		{UnitMile, KindLength},
	}
	for _, tt := range tests {
		_, err := DefaultConversion.ToCanonical(1, tt.unit, tt.kind)
		assert.ErrorIs(t, err, ErrInvalidUnit, "unit %q kind %s", tt.unit, tt.kind)
	}
}

func TestConversionValidate(t *testing.T) {
	assert.NoError(t, DefaultConversion.Validate())
	bad := DefaultConversion
	bad.KilogramsPerPound = 0
	assert.Error(t, bad.Validate())
}
