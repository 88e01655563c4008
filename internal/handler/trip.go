package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/voya/internal/domain"
)

// TripRequest is the body of POST /trips and PUT /trips/{tripId}.
type TripRequest struct {
	Destination   string `json:"destination"`
	ArrivalDate   string `json:"arrival_date"`
	DepartureDate string `json:"departure_date"`
}

// Trip is the JSON representation of a trip.
type Trip struct {
	ID            int64     `json:"id"`
	Destination   string    `json:"destination"`
	ArrivalDate   string    `json:"arrival_date"`
	DepartureDate string    `json:"departure_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), requestToTrip(principal(r).UserID, 0, body))
	if err != nil {
		respondErr(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.trips.ListPaged(r.Context(), principal(r).UserID, params)
	if err != nil {
		respondErr(w, r, err, "trip not found")
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), principal(r).UserID, id)
	if err != nil {
		respondErr(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	var body TripRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), requestToTrip(principal(r).UserID, id, body))
	if err != nil {
		respondErr(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripId}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), principal(r).UserID, id); err != nil {
		respondErr(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip builds a domain.Trip owned by userID; id is 0 on create.
func requestToTrip(userID, id int64, body TripRequest) domain.Trip {
	return domain.Trip{
		ID:            id,
		UserID:        userID,
		Destination:   body.Destination,
		ArrivalDate:   body.ArrivalDate,
		DepartureDate: body.DepartureDate,
	}
}

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:            t.ID,
		Destination:   t.Destination,
		ArrivalDate:   t.ArrivalDate,
		DepartureDate: t.DepartureDate,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
