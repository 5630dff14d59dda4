/*
engine.go - The validate -> check -> commit pipeline

PURPOSE:
  Engine is what the booking UI talks to. A reservation attempt moves
  through a fixed sequence of states:

    Received -> Validating -> {Rejected(reason) | Validated}
    Validated -> CheckingAvailability -> {Unavailable | Available}
    Available -> Committing -> Committed

  Every failure state is terminal for the attempt; the user retries with
  a new request. Nothing is mutated until the commit step, and commit only
  runs after availability was confirmed in the same attempt.

CONCURRENCY:
  Attempts may arrive on concurrent goroutines. The engine serializes the
  availability check with the commit that follows it, so of any set of
  overlapping attempts at most one can reach the ledger.

COMMIT ORDER:
  1. Build the AuditRecord from the validated request
  2. Append it to the audit log (creating the log if absent)
  3. Mark the reserved nights in the ledger and persist

  Step 3 marks only the UNBUFFERED range [startIndex, endIndex]; the wider
  range is used for the availability check only.
*/
package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// OUTCOME - What a single attempt produced
// =============================================================================

type OutcomeStatus string

const (
	OutcomeSuccess     OutcomeStatus = "success"
	OutcomeRejected    OutcomeStatus = "rejected"
	OutcomeUnavailable OutcomeStatus = "unavailable"
)

// Outcome is the tri-state result of AttemptReservation. Reason is set
// only for Rejected, Record only for Success.
type Outcome struct {
	Status OutcomeStatus
	Reason Reason
	Record *AuditRecord
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine wires the validator, the ledger and the audit log together. The
// horizon and stores are injected at construction; the engine holds no
// other state.
type Engine struct {
	horizon Horizon
	ledger  *Ledger
	audit   AuditLog

	// mu serializes the availability check with the commit that follows
	// it. Without it two concurrent attempts for overlapping nights could
	// both pass the check before either one marks the ledger.
	mu sync.Mutex

	// now is the clock used for the past-date rule. Tests override it.
	now func() time.Time
}

func NewEngine(ledger *Ledger, audit AuditLog) *Engine {
	return &Engine{
		horizon: ledger.Horizon(),
		ledger:  ledger,
		audit:   audit,
		now:     time.Now,
	}
}

// WithClock replaces the engine's clock. Returns the engine for chaining.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Ledger exposes the engine's ledger for read-only callers (availability
// views, tests).
func (e *Engine) Ledger() *Ledger { return e.ledger }

// AttemptReservation runs one full reservation attempt. Rule violations
// and unavailability come back inside the Outcome; only storage and
// consistency faults are returned as errors.
func (e *Engine) AttemptReservation(ctx context.Context, req ReservationRequest) (Outcome, error) {
	res, ruleErr := Validate(req, e.horizon, e.now(), e.ledger)
	if ruleErr != nil {
		return Outcome{Status: OutcomeRejected, Reason: ruleErr.Reason}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ok, err := e.ledger.Available(res.Listing, res.StartIndex, res.EndIndex)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{Status: OutcomeUnavailable}, nil
	}

	rec, err := e.commit(ctx, res)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: OutcomeSuccess, Record: rec}, nil
}

// commit assumes availability was already confirmed; it does not re-check.
func (e *Engine) commit(ctx context.Context, res *Reservation) (*AuditRecord, error) {
	rec := AuditRecord{
		ID:        uuid.NewString(),
		FirstName: res.FirstName,
		LastName:  res.LastName,
		Email:     res.Email,
		Phone:     res.Phone,
		Listing:   res.Listing,
		Start:     res.Start,
		End:       res.End,
		CreatedAt: e.now().UTC(),
	}

	if err := e.audit.Append(ctx, rec); err != nil {
		return nil, err
	}
	if err := e.ledger.MarkBooked(ctx, res.Listing, res.StartIndex, res.EndIndex); err != nil {
		return nil, err
	}
	return &rec, nil
}
