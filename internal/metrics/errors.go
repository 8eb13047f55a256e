package metrics

import "errors"

// --- Error Definitions ---
var (
	ErrInvalidUnit                = errors.New("invalid unit")
	ErrDivisionByZeroTarget       = errors.New("target must be greater than zero")
	ErrMissingRequiredMeasurement = errors.New("height and weight are required")
	ErrInvalidThresholds          = errors.New("invalid threshold table")
)
