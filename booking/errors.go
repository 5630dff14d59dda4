/*
errors.go - Centralized error types for the booking engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Rule errors - A request violated a business rule (recoverable, the
     user is shown a specific message and nothing is mutated)
  2. Availability - The requested range overlaps an existing booking
     (recoverable, pick another listing or date range)
  3. Storage errors - The persisted ledger or audit log is unreadable or
     corrupt (fatal for the current operation)
  4. Consistency faults - A row was requested for a listing the ledger
     does not know; indicates catalog/ledger desynchronization and is a
     defect, not a user error

USAGE:
  if errors.Is(err, booking.ErrUnknownListing) {
      // catalog and ledger disagree; treat as a bug
  }
*/
package booking

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrLedgerNotFound is returned by a LedgerStore when no persisted
	// state exists. This is the normal first-run branch: LoadOrInitialize
	// recovers by building a fresh ledger.
	ErrLedgerNotFound = errors.New("no persisted ledger")

	// ErrCorruptLedger is returned when persisted state is present but
	// malformed (wrong row length, unparseable listing id).
	ErrCorruptLedger = errors.New("persisted ledger malformed")

	// ErrUnknownListing is returned when a row is requested for a listing
	// id that is not in the ledger.
	ErrUnknownListing = errors.New("listing not in ledger")

	// ErrUnavailable is returned when the requested range, widened by the
	// one-day buffer, overlaps an existing booking.
	ErrUnavailable = errors.New("requested range unavailable")
)

// =============================================================================
// RULE ERRORS - Validation failures with a distinct reason each
// =============================================================================

// Reason identifies which validation rule a request failed. Reasons are
// stable codes; the user-facing message lives in Message.
type Reason string

const (
	ReasonEndBeforeStart     Reason = "end-before-start"
	ReasonPastDate           Reason = "past-date"
	ReasonBeforeHorizonStart Reason = "before-horizon-start"
	ReasonAfterHorizonEnd    Reason = "after-horizon-end"
	ReasonUnknownListing     Reason = "unknown-listing"
	ReasonMalformedEmail     Reason = "malformed-email"
	ReasonMalformedPhone     Reason = "malformed-phone"
)

var reasonMessages = map[Reason]string{
	ReasonEndBeforeStart:     "End date can't be before start date",
	ReasonPastDate:           "Can't reserve in the past",
	ReasonBeforeHorizonStart: "Reservation can't start before the booking window opens",
	ReasonAfterHorizonEnd:    "Too far into the future",
	ReasonUnknownListing:     "Invalid listing ID",
	ReasonMalformedEmail:     "Invalid email address",
	ReasonMalformedPhone:     "Invalid phone number",
}

// Message returns the user-facing message for a reason code.
func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return string(r)
}

// RuleError reports a failed validation check. No state is mutated when a
// RuleError is returned.
type RuleError struct {
	Reason Reason
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("reservation rejected (%s): %s", e.Reason, e.Reason.Message())
}

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownListingError reports a ledger row lookup for an id the ledger does
// not track.
type UnknownListingError struct {
	Listing ListingID
}

func (e *UnknownListingError) Error() string {
	return fmt.Sprintf("listing %s not in ledger", e.Listing)
}

func (e *UnknownListingError) Unwrap() error { return ErrUnknownListing }

// StorageError wraps a failure to read or write persistent state. The
// replace-on-write discipline in the stores guarantees that a StorageError
// during commit never leaves a partially written ledger behind.
type StorageError struct {
	Op  string // "load ledger", "persist ledger", "append audit"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to the request itself
// rather than an engine or storage fault.
func IsClientError(err error) bool {
	var rule *RuleError
	return errors.As(err, &rule) || errors.Is(err, ErrUnavailable)
}
