package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/itinerary"
	"github.com/pkordes/voya/internal/repo"
)

// StopService implements business logic for Stop operations.
// It holds the trips repo because a stop's date is validated against the
// days of its parent trip.
type StopService struct {
	trips repo.TripRepo
	stops repo.StopRepo
}

// NewStopService constructs a StopService backed by the provided repos.
func NewStopService(trips repo.TripRepo, stops repo.StopRepo) *StopService {
	return &StopService{trips: trips, stops: stops}
}

// Create validates the stop, verifies the parent trip exists for the owner
// and that the stop falls on one of its days, then persists it together with
// its route steps.
// Returns domain.ErrValidation if input violates business rules.
// Returns domain.ErrNotFound if the parent trip does not exist.
func (s *StopService) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	stop = trimStop(stop)
	if err := validateStop(stop); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	if stop.Date == "" {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w: date is required", domain.ErrValidation)
	}

	trip, err := s.trips.GetByID(ctx, stop.UserID, stop.TripID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	ok, err := itinerary.InRange(trip.ArrivalDate, trip.DepartureDate, stop.Date)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	if !ok {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w: invalid date for this trip", domain.ErrValidation)
	}

	created, err := s.stops.Create(ctx, stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single stop, scoped to the owner and trip.
// Returns domain.ErrNotFound if no such stop exists.
func (s *StopService) GetByID(ctx context.Context, userID, tripID, stopID int64) (domain.Stop, error) {
	result, err := s.stops.GetByID(ctx, userID, tripID, stopID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTrip returns every stop of the trip in display order.
// Returns domain.ErrNotFound if the trip does not exist for the user.
// Always returns a non-nil slice so callers can safely range over it.
func (s *StopService) ListByTrip(ctx context.Context, userID, tripID int64) ([]domain.StopView, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.StopService.ListByTrip: %w", err)
	}
	stops, err := s.stops.ListByTrip(ctx, userID, tripID, "")
	if err != nil {
		return nil, fmt.Errorf("service.StopService.ListByTrip: %w", err)
	}
	return itinerary.OrderStops(stops), nil
}

// Update validates and persists changes to an existing stop, replacing its
// route steps. The date of a stop cannot be changed.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// stop does not exist under the given trip.
func (s *StopService) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	stop = trimStop(stop)
	if err := validateStop(stop); err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	result, err := s.stops.Update(ctx, stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a stop and its route steps.
// Returns domain.ErrNotFound if the stop does not exist under the given trip.
func (s *StopService) Delete(ctx context.Context, userID, tripID, stopID int64) error {
	if err := s.stops.Delete(ctx, userID, tripID, stopID); err != nil {
		return fmt.Errorf("service.StopService.Delete: %w", err)
	}
	return nil
}

// trimStop trims every text field and renumbers route steps 0..N-1 in the
// order given.
func trimStop(stop domain.Stop) domain.Stop {
	stop.Action = strings.TrimSpace(stop.Action)
	stop.Time = strings.TrimSpace(stop.Time)
	stop.Date = strings.TrimSpace(stop.Date)
	stop.Destination = strings.TrimSpace(stop.Destination)
	stop.Route = strings.TrimSpace(stop.Route)

	texts := make([]string, len(stop.RouteSteps))
	for i, st := range stop.RouteSteps {
		texts[i] = st.Text
	}
	stop.RouteSteps = domain.NewRouteSteps(texts)
	return stop
}

// maxTimeLen matches the stops.stop_time column.
const maxTimeLen = 10

// validateStop enforces the required fields common to Create and Update.
func validateStop(stop domain.Stop) error {
	for _, f := range []struct{ name, value string }{
		{"action", stop.Action},
		{"time", stop.Time},
		{"destination", stop.Destination},
		{"route", stop.Route},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}
	if utf8.RuneCountInString(stop.Time) > maxTimeLen {
		return fmt.Errorf("%w: time must be at most %d characters", domain.ErrValidation, maxTimeLen)
	}
	return nil
}
