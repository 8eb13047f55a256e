package scheduler

import (
	"errors"
	"fmt"
	"math"
	"time"

	"alcyxob/health-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCooldown is the wait between two generations for the same user.
const DefaultCooldown = 15 * 24 * time.Hour

const day = 24 * time.Hour

// --- Error Definitions ---
var (
	ErrStaleEligibilityCheck = errors.New("generation is not eligible: eligibility check is stale")
	ErrTerminalStatus        = errors.New("generation already reached a terminal status")
	ErrEmptyPayload          = errors.New("generated payload cannot be empty")
)

// State is the position of a user's generation timeline.
type State string

const (
	StateNoHistory   State = "no-history"
	StateCoolingDown State = "cooling-down"
	StateEligible    State = "eligible"
)

// Eligibility is the outcome of a cooldown check.
type Eligibility struct {
	CanGenerate    bool                     `json:"canGenerate"`
	RemainingDays  int                      `json:"remainingDays"`
	State          State                    `json:"state"`
	LastGeneration *domain.GenerationRecord `json:"lastGeneration"`
}

// Scheduler gates generations behind a fixed cooldown.
type Scheduler struct {
	cooldown time.Duration
	now      func() time.Time
}

// New creates a Scheduler. A nil clock defaults to time.Now in UTC.
func New(cooldown time.Duration, clock func() time.Time) *Scheduler {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Scheduler{cooldown: cooldown, now: clock}
}

// Cooldown returns the configured cooldown.
func (s *Scheduler) Cooldown() time.Duration { return s.cooldown }

// Now returns the scheduler clock's current time.
func (s *Scheduler) Now() time.Time { return s.now() }

// Check evaluates the newest record of a timeline. last may be nil.
func (s *Scheduler) Check(last *domain.GenerationRecord) Eligibility {
	if last == nil {
		return Eligibility{CanGenerate: true, RemainingDays: 0, State: StateNoHistory}
	}
	now := s.now()
	if !now.Before(last.NextGenerationDate) {
		return Eligibility{CanGenerate: true, RemainingDays: 0, State: StateEligible, LastGeneration: last}
	}
	remaining := int(math.Ceil(float64(last.NextGenerationDate.Sub(now)) / float64(day)))
	if remaining < 0 {
		remaining = 0
	}
	return Eligibility{CanGenerate: false, RemainingDays: remaining, State: StateCoolingDown, LastGeneration: last}
}

// Revalidate fails with ErrStaleEligibilityCheck when last still blocks a new generation.
func (s *Scheduler) Revalidate(last *domain.GenerationRecord) error {
	if e := s.Check(last); !e.CanGenerate {
		return fmt.Errorf("%w: %d day(s) remaining", ErrStaleEligibilityCheck, e.RemainingDays)
	}
	return nil
}

// NewRecord builds the pending record for a fresh generation. It does not
// check eligibility; callers gate it with Check or Revalidate.
func (s *Scheduler) NewRecord(ownerID primitive.ObjectID, kind domain.GenerationKind) domain.GenerationRecord {
	now := s.now()
	return domain.GenerationRecord{
		OwnerID:            ownerID,
		Kind:               kind,
		GeneratedAt:        now,
		NextGenerationDate: now.Add(s.cooldown),
		Status:             domain.GenerationPending,
		UpdatedAt:          now,
	}
}

// MarkGenerated moves a pending record to generated with its payload.
func (s *Scheduler) MarkGenerated(rec domain.GenerationRecord, payload domain.GenerationPayload) (domain.GenerationRecord, error) {
	if rec.IsTerminal() {
		return rec, fmt.Errorf("%w: %s", ErrTerminalStatus, rec.Status)
	}
	if payload.Content == "" && payload.ArtifactKey == "" {
		return rec, ErrEmptyPayload
	}
	rec.Status = domain.GenerationGenerated
	rec.Payload = &payload
	rec.ErrorMessage = ""
	rec.UpdatedAt = s.now()
	return rec, nil
}

// RecordFailure counts a failed attempt. The record becomes failed once
// maxAttempts is reached and stays pending otherwise, so the worker can retry.
func (s *Scheduler) RecordFailure(rec domain.GenerationRecord, cause error, maxAttempts int) (domain.GenerationRecord, error) {
	if rec.IsTerminal() {
		return rec, fmt.Errorf("%w: %s", ErrTerminalStatus, rec.Status)
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	rec.AttemptCount++
	if cause != nil {
		rec.ErrorMessage = cause.Error()
	}
	if rec.AttemptCount >= maxAttempts {
		rec.Status = domain.GenerationFailed
	}
	rec.UpdatedAt = s.now()
	return rec, nil
}
