/*
handlers.go - HTTP handlers for the booking API

PURPOSE:
  Thin JSON shims over the catalog and the booking engine. All business
  rules live in the booking package; handlers translate HTTP to domain
  calls and domain outcomes back to status codes:

    Success     -> 201 Created
    Rejected    -> 422 Unprocessable Entity (reason + message)
    Unavailable -> 409 Conflict
    storage     -> 500 Internal Server Error

SEE ALSO:
  - server.go: Route wiring
  - booking/engine.go: AttemptReservation semantics
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hearth/booking-engine/booking"
	"github.com/hearth/booking-engine/catalog"
)

// Handler carries the handler dependencies.
type Handler struct {
	Catalog *catalog.Catalog
	Engine  *booking.Engine
}

func NewHandler(c *catalog.Catalog, e *booking.Engine) *Handler {
	return &Handler{Catalog: c, Engine: e}
}

// =============================================================================
// LISTINGS
// =============================================================================

// ListListings returns catalog listings matching the filter query
// parameters: min_price, max_price, min_nights, min_nights_at_least,
// neighborhood (repeatable), room_type (repeatable), and an optional
// lat/lon reference point for distances.
func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	near, err := pointFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	listings := h.Catalog.Filter(filter)
	out := make([]ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = toListingResponse(l, near)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetListing returns a single listing by id.
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid listing id"})
		return
	}
	listing, ok := h.Catalog.Get(booking.ListingID(id))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "listing not found"})
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(listing, nil))
}

// GetAvailability returns the listing's per-day occupancy over the whole
// horizon.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid listing id"})
		return
	}

	ledger := h.Engine.Ledger()
	row, err := ledger.Row(booking.ListingID(id))
	if err != nil {
		var unknown *booking.UnknownListingError
		if errors.As(err, &unknown) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "listing not found"})
			return
		}
		h.internalError(w, err)
		return
	}

	horizon := ledger.Horizon()
	days := make([]DayAvailability, len(row))
	for i, cell := range row {
		days[i] = DayAvailability{
			Date:   horizon.Date(i + 1).Format(dateLayout),
			Booked: cell == booking.Booked,
		}
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{ListingID: id, Days: days})
}

// =============================================================================
// CHARTS
// =============================================================================

// GetCharts returns the chart aggregates over the filtered listings. It
// accepts the same filter parameters as ListListings.
func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	listings := h.Catalog.Filter(filter)
	writeJSON(w, http.StatusOK, ChartsResponse{
		Neighborhoods: catalog.NeighborhoodCounts(listings),
		Prices:        catalog.PriceHistogram(listings),
		RoomTypes:     catalog.RoomTypeCounts(listings),
	})
}

// GetLandmarks returns the built-in landmark table.
func (h *Handler) GetLandmarks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Landmarks)
}

// =============================================================================
// RESERVATIONS
// =============================================================================

// CreateReservation runs one reservation attempt.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var dto ReservationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	start, err := parseDate(dto.StartDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid start_date, want YYYY-MM-DD"})
		return
	}
	end, err := parseDate(dto.EndDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid end_date, want YYYY-MM-DD"})
		return
	}

	outcome, err := h.Engine.AttemptReservation(r.Context(), booking.ReservationRequest{
		ListingID: dto.ListingID,
		StartDate: start,
		EndDate:   end,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Phone:     dto.Phone,
	})
	if err != nil {
		h.internalError(w, err)
		return
	}

	switch outcome.Status {
	case booking.OutcomeSuccess:
		writeJSON(w, http.StatusCreated, ReservationResponse{
			Status: string(outcome.Status),
			Record: toAuditRecordDTO(outcome.Record),
		})
	case booking.OutcomeRejected:
		writeJSON(w, http.StatusUnprocessableEntity, ReservationResponse{
			Status:  string(outcome.Status),
			Reason:  string(outcome.Reason),
			Message: outcome.Reason.Message(),
		})
	case booking.OutcomeUnavailable:
		writeJSON(w, http.StatusConflict, ReservationResponse{
			Status:  string(outcome.Status),
			Message: "Reservation unavailable. Please select another listing or timeframe.",
		})
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func filterFromQuery(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	var f catalog.Filter
	var err error

	if v := q.Get("min_price"); v != "" {
		if f.MinPrice, err = decimal.NewFromString(v); err != nil {
			return f, errors.New("invalid min_price")
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f.MaxPrice, err = decimal.NewFromString(v); err != nil {
			return f, errors.New("invalid max_price")
		}
	}
	if v := q.Get("min_nights"); v != "" {
		if f.MinNightsExact, err = strconv.Atoi(v); err != nil {
			return f, errors.New("invalid min_nights")
		}
	}
	if v := q.Get("min_nights_at_least"); v != "" {
		if f.MinNightsAtLeast, err = strconv.Atoi(v); err != nil {
			return f, errors.New("invalid min_nights_at_least")
		}
	}
	f.Neighborhoods = q["neighborhood"]
	f.RoomTypes = q["room_type"]
	return f, nil
}

func pointFromQuery(r *http.Request) (*catalog.Point, error) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errors.New("invalid lat")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, errors.New("invalid lon")
	}
	return &catalog.Point{Lat: lat, Lon: lon}, nil
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	log.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
