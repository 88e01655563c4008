package handler

import (
	"net/http"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/itinerary"
)

// StopRequest is the body of POST and PUT on a trip's stops. Date is
// ignored on update.
type StopRequest struct {
	Action      string   `json:"action"`
	Time        string   `json:"time"`
	Date        string   `json:"date"`
	Destination string   `json:"destination"`
	Route       string   `json:"route"`
	RouteSteps  []string `json:"route_steps"`
}

// StopEnvelope wraps a single stop, matching the success shape of the XHR
// endpoints.
type StopEnvelope struct {
	Success bool            `json:"success"`
	Stop    domain.StopView `json:"stop"`
}

// ListStops handles GET /trips/{tripId}/stops: every stop of the trip in
// itinerary order.
func (s *Server) ListStops(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	views, err := s.stops.ListByTrip(r.Context(), principal(r).UserID, tripID)
	if err != nil {
		respondErr(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// CreateStop handles POST /trips/{tripId}/stops.
func (s *Server) CreateStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	var body StopRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.stops.Create(r.Context(), requestToStop(principal(r).UserID, tripID, 0, body))
	if err != nil {
		respondErr(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, StopEnvelope{Success: true, Stop: stopView(created)})
}

// UpdateStop handles PUT /trips/{tripId}/stops/{stopId}.
func (s *Server) UpdateStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	stopID, ok := pathID(w, r, "stopId")
	if !ok {
		return
	}
	var body StopRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.stops.Update(r.Context(), requestToStop(principal(r).UserID, tripID, stopID, body))
	if err != nil {
		respondErr(w, r, err, "stop not found")
		return
	}
	writeJSON(w, http.StatusOK, StopEnvelope{Success: true, Stop: stopView(updated)})
}

// DeleteStop handles DELETE /trips/{tripId}/stops/{stopId}.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	stopID, ok := pathID(w, r, "stopId")
	if !ok {
		return
	}
	if err := s.stops.Delete(r.Context(), principal(r).UserID, tripID, stopID); err != nil {
		respondErr(w, r, err, "stop not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requestToStop(userID, tripID, stopID int64, body StopRequest) domain.Stop {
	return domain.Stop{
		ID:          stopID,
		TripID:      tripID,
		UserID:      userID,
		Action:      body.Action,
		Time:        body.Time,
		Date:        body.Date,
		Destination: body.Destination,
		Route:       body.Route,
		RouteSteps:  domain.NewRouteSteps(body.RouteSteps),
	}
}

// stopView projects a single stop the same way the itinerary does.
func stopView(stop domain.Stop) domain.StopView {
	return itinerary.OrderStops([]domain.Stop{stop})[0]
}
