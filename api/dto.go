/*
dto.go - Wire types for the HTTP API

PURPOSE:
  Request and response shapes for JSON endpoints, kept separate from the
  domain types so the wire format can evolve independently. Dates cross
  the wire as YYYY-MM-DD; money as decimal strings.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearth/booking-engine/booking"
	"github.com/hearth/booking-engine/catalog"
)

const dateLayout = "2006-01-02"

// =============================================================================
// LISTINGS
// =============================================================================

type ListingResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	HostName      string          `json:"host_name"`
	Neighborhood  string          `json:"neighborhood"`
	Latitude      float64         `json:"latitude"`
	Longitude     float64         `json:"longitude"`
	RoomType      string          `json:"room_type"`
	Price         decimal.Decimal `json:"price"`
	MinimumNights int             `json:"minimum_nights"`

	// DistanceMiles is set when the query included a reference point.
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
}

func toListingResponse(l catalog.Listing, near *catalog.Point) ListingResponse {
	resp := ListingResponse{
		ID:            int64(l.ID),
		Name:          l.Name,
		HostName:      l.HostName,
		Neighborhood:  l.Neighborhood,
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		RoomType:      l.RoomType,
		Price:         l.Price,
		MinimumNights: l.MinimumNights,
	}
	if near != nil {
		d := l.DistanceTo(*near)
		resp.DistanceMiles = &d
	}
	return resp
}

// =============================================================================
// AVAILABILITY
// =============================================================================

type DayAvailability struct {
	Date   string `json:"date"`
	Booked bool   `json:"booked"`
}

type AvailabilityResponse struct {
	ListingID int64             `json:"listing_id"`
	Days      []DayAvailability `json:"days"`
}

// =============================================================================
// CHARTS
// =============================================================================

type ChartsResponse struct {
	Neighborhoods []catalog.BinCount `json:"neighborhoods"`
	Prices        []catalog.BinCount `json:"prices"`
	RoomTypes     []catalog.BinCount `json:"room_types"`
}

// =============================================================================
// RESERVATIONS
// =============================================================================

type ReservationRequestDTO struct {
	ListingID string `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type AuditRecordDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ListingID int64  `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type ReservationResponse struct {
	Status  string          `json:"status"` // "success", "rejected", "unavailable"
	Reason  string          `json:"reason,omitempty"`
	Message string          `json:"message,omitempty"`
	Record  *AuditRecordDTO `json:"record,omitempty"`
}

func toAuditRecordDTO(rec *booking.AuditRecord) *AuditRecordDTO {
	if rec == nil {
		return nil
	}
	return &AuditRecordDTO{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Phone:     rec.Phone,
		ListingID: int64(rec.Listing),
		StartDate: rec.Start.Format(dateLayout),
		EndDate:   rec.End.Format(dateLayout),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
