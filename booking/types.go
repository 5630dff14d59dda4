/*
Package booking provides the reservation ledger and availability engine.

PURPOSE:
  This package contains the core state and invariants of the system: a
  per-listing, per-day occupancy ledger over a fixed booking horizon, a
  rule checker for reservation requests, conflict detection against the
  ledger, and the commit pipeline that durably records a booking together
  with its audit trail.

KEY CONCEPTS IN THIS FILE (types.go):
  - ListingID: Type-safe identifier for a catalog listing
  - Cell: A single day's occupancy state (Free or Booked)
  - ReservationRequest: Raw, unvalidated user input
  - Reservation: A validated, normalized request with day indices resolved
  - AuditRecord: Immutable record of a completed booking

DESIGN PRINCIPLES:
  1. Explicit configuration: The horizon is injected, never a package global
  2. Append-only audit: Records are written once and never modified
  3. Free -> Booked only: Cells never revert (no cancellation in scope)

SEE ALSO:
  - horizon.go: The fixed calendar window and day-index math
  - ledger.go: The durable occupancy store
  - validate.go: Request validation rules
  - engine.go: The validate -> check -> commit pipeline
*/
package booking

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// ListingID identifies a listing from the catalog. Catalog exports use
// numeric identifiers, so requests carry the raw string form until the
// validator parses it.
type ListingID int64

func (id ListingID) String() string { return fmt.Sprintf("%d", int64(id)) }

// =============================================================================
// CELL - A single day's occupancy state
// =============================================================================

type Cell uint8

const (
	Free Cell = iota
	Booked
)

// =============================================================================
// RESERVATION REQUEST - Raw user input
// =============================================================================

// ReservationRequest is exactly what the booking form submits. Nothing here
// is trusted: the listing ID is an unparsed string and the contact fields
// are unchecked. Requests are ephemeral; they exist for one attempt and are
// discarded after processing.
type ReservationRequest struct {
	ListingID string
	StartDate time.Time
	EndDate   time.Time
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Reservation is a ReservationRequest that passed validation. Dates are
// normalized to UTC midnight and resolved to horizon day indices.
type Reservation struct {
	Listing    ListingID
	Start      time.Time
	End        time.Time
	StartIndex int
	EndIndex   int
	FirstName  string
	LastName   string
	Email      string
	Phone      string
}

// =============================================================================
// AUDIT RECORD - One per successful commit, append-only
// =============================================================================

// AuditRecord describes a completed booking. It is owned by the commit
// pipeline: written once per success, never read back by the ledger.
type AuditRecord struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Listing   ListingID
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}

// auditDateLayout matches the DD-Mon-YYYY format of the log file.
const auditDateLayout = "02-Jan-2006"

// Fixed column widths of the audit log line, in field order.
var auditWidths = [7]int{15, 20, 25, 12, 8, 20, 20}

// LogLine renders the record as one fixed-width, tab-separated line
// (without trailing newline). Fields longer than their column are truncated.
func (r AuditRecord) LogLine() string {
	fields := [7]string{
		r.FirstName,
		r.LastName,
		r.Email,
		r.Phone,
		r.Listing.String(),
		r.Start.Format(auditDateLayout),
		r.End.Format(auditDateLayout),
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = padField(f, auditWidths[i])
	}
	return strings.Join(parts, "\t")
}

func padField(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
