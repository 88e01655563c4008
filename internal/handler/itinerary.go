package handler

import (
	"net/http"

	"github.com/pkordes/voya/internal/domain"
)

// Itinerary is the body of GET /trips/{tripId}/itinerary.
// SelectedDay is null when the trip spans no days.
type Itinerary struct {
	Trip        Trip              `json:"trip"`
	Days        []string          `json:"days"`
	DaysToShow  []string          `json:"days_to_show"`
	WindowStart int               `json:"window_start"`
	SelectedDay *string           `json:"selected_day"`
	Stops       []domain.StopView `json:"stops"`
}

// GetItinerary handles GET /trips/{tripId}/itinerary?day=&window=.
// A missing or unparsable window is treated as 0.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	window := 0
	if v := queryInt(r, "window"); v != nil {
		window = *v
	}

	view, err := s.itinerary.View(r.Context(), principal(r).UserID, id, r.URL.Query().Get("day"), window)
	if err != nil {
		respondErr(w, r, err, "trip not found")
		return
	}
	s.opts.Metrics.ItineraryViewed()

	resp := Itinerary{
		Trip:        tripToResponse(view.Trip),
		Days:        view.Days,
		DaysToShow:  view.DaysToShow,
		WindowStart: view.WindowStart,
		Stops:       view.Stops,
	}
	if view.SelectedDay != "" {
		resp.SelectedDay = &view.SelectedDay
	}
	writeJSON(w, http.StatusOK, resp)
}
