/*
validate.go - Reservation request validation

PURPOSE:
  Pure rule checker for a candidate reservation. Checks run in a fixed
  precedence order and the FIRST failing check wins, so the same bad
  request always yields the same user-facing message.

CHECK ORDER:
  1. End date not before start date
  2. Start date not in the past
  3. Both dates on or after the horizon reference date
  4. End date's horizon offset within the tracked window
  5. Listing id parses as an integer and is known to the ledger
  6. Email has at least one '@' and one '.', with the last '@' before
     the last '.'
  7. Phone is exactly ten digits

  The email rule is deliberately shallow: "a@b.c" passes, "a@b" (no dot)
  and "a.b@" (last '@' after last '.') fail. It is a sanity check on form
  input, not RFC 5322.

NO SIDE EFFECTS:
  Validation never touches the ledger or the audit log. A failed check
  returns a RuleError with a distinct reason code and nothing else happens.
*/
package booking

import (
	"strconv"
	"strings"
	"time"
)

// ListingSet answers membership queries for validation. *Ledger satisfies
// it; tests can pass anything.
type ListingSet interface {
	Has(id ListingID) bool
}

// Validate runs the rule checks against a raw request. On success it
// returns the normalized reservation with dates resolved to day indices;
// on failure it returns the first rule violated, in precedence order.
// today is injected so callers control the clock.
func Validate(req ReservationRequest, horizon Horizon, today time.Time, known ListingSet) (*Reservation, *RuleError) {
	start := midnightUTC(req.StartDate)
	end := midnightUTC(req.EndDate)
	today = midnightUTC(today)

	if end.Before(start) {
		return nil, &RuleError{Reason: ReasonEndBeforeStart}
	}
	if start.Before(today) {
		return nil, &RuleError{Reason: ReasonPastDate}
	}
	if start.Before(horizon.Reference) || end.Before(horizon.Reference) {
		return nil, &RuleError{Reason: ReasonBeforeHorizonStart}
	}
	if horizon.Index(end) > horizon.LengthDays {
		return nil, &RuleError{Reason: ReasonAfterHorizonEnd}
	}

	id, err := strconv.ParseInt(strings.TrimSpace(req.ListingID), 10, 64)
	if err != nil || !known.Has(ListingID(id)) {
		return nil, &RuleError{Reason: ReasonUnknownListing}
	}

	if !validEmail(req.Email) {
		return nil, &RuleError{Reason: ReasonMalformedEmail}
	}
	if !validPhone(req.Phone) {
		return nil, &RuleError{Reason: ReasonMalformedPhone}
	}

	return &Reservation{
		Listing:    ListingID(id),
		Start:      start,
		End:        end,
		StartIndex: horizon.Index(start),
		EndIndex:   horizon.Index(end),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
	}, nil
}

func validEmail(email string) bool {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return false
	}
	return strings.LastIndex(email, "@") < strings.LastIndex(email, ".")
}

func validPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
