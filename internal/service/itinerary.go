package service

import (
	"context"
	"fmt"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/itinerary"
	"github.com/pkordes/voya/internal/repo"
)

// ItineraryService builds the day-by-day view of a trip.
type ItineraryService struct {
	trips repo.TripRepo
	stops repo.StopRepo
}

func NewItineraryService(trips repo.TripRepo, stops repo.StopRepo) *ItineraryService {
	return &ItineraryService{trips: trips, stops: stops}
}

// View returns the trip's days, the visible window of days around the
// requested day and the ordered stops of the selected day. An unknown day or
// an out-of-range window is normalised, never an error. When the trip has no
// days every stop of the trip is listed.
// Returns domain.ErrNotFound if the trip does not exist for the user and an
// *itinerary.ParseError if the stored trip dates are malformed.
func (s *ItineraryService) View(ctx context.Context, userID, tripID int64, day string, window int) (domain.Itinerary, error) {
	trip, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.View: %w", err)
	}

	days, err := itinerary.GenerateDays(trip.ArrivalDate, trip.DepartureDate)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.View: %w", err)
	}
	w := itinerary.SelectWindow(days, day, window)

	stops, err := s.stops.ListByTrip(ctx, userID, tripID, w.SelectedDay)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.View: %w", err)
	}

	return domain.Itinerary{
		Trip:        trip,
		Days:        days,
		DaysToShow:  w.Days,
		WindowStart: w.Start,
		SelectedDay: w.SelectedDay,
		Stops:       itinerary.OrderStops(stops),
	}, nil
}
