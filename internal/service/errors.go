package service

import "errors"

// --- Error Definitions ---
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrRecordNotFound       = errors.New("record not found")
	ErrCoolingDown          = errors.New("generation is cooling down")
	ErrGenerationInProgress = errors.New("a generation is already in progress")
	ErrUnknownCalorieSource = errors.New("unknown calorie source")
)
