package metrics

import (
	"fmt"
	"strings"
)

// Kind is the physical quantity a unit measures.
type Kind string

const (
	KindLength   Kind = "length"   // canonical: cm
	KindMass     Kind = "mass"     // canonical: kg
	KindDistance Kind = "distance" // canonical: km
)

// Unit is one of the supported measurement units.
type Unit string

const (
	UnitCentimeter Unit = "cm"
	UnitFoot       Unit = "ft"
	UnitKilogram   Unit = "kg"
	UnitPound      Unit = "lbs"
	UnitKilometer  Unit = "km"
	UnitMile       Unit = "mi"
)

// Conversion holds the factors used to reach canonical units.
type Conversion struct {
	CentimetersPerFoot float64
	KilogramsPerPound  float64
	KilometersPerMile  float64
}

// DefaultConversion uses the standard international factors.
var DefaultConversion = Conversion{
	CentimetersPerFoot: 30.48,
	KilogramsPerPound:  0.453592,
	KilometersPerMile:  1.609344,
}

// ParseUnit normalizes a user supplied unit string.
func ParseUnit(s string) Unit {
	return Unit(strings.ToLower(strings.TrimSpace(s)))
}

// ToCanonical converts value from unit into the canonical unit for kind.
func (c Conversion) ToCanonical(value float64, unit Unit, kind Kind) (float64, error) {
	u := ParseUnit(string(unit))
	switch kind {
	case KindLength:
		switch u {
		case UnitCentimeter:
			return value, nil
		case UnitFoot:
			return value * c.CentimetersPerFoot, nil
		}
	case KindMass:
		switch u {
		case UnitKilogram:
			return value, nil
		case UnitPound:
			return value * c.KilogramsPerPound, nil
		}
	case KindDistance:
		switch u {
		case UnitKilometer:
			return value, nil
		case UnitMile:
			return value * c.KilometersPerMile, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not a supported %s unit", ErrInvalidUnit, unit, kind)
}

// Validate checks that every factor is usable.
func (c Conversion) Validate() error {
	if c.CentimetersPerFoot <= 0 || c.KilogramsPerPound <= 0 || c.KilometersPerMile <= 0 {
		return fmt.Errorf("conversion factors must be positive: %+v", c)
	}
	return nil
}
