// Package service contains the business logic for the Voya API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/itinerary"
	"github.com/pkordes/voya/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip for trip.UserID.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip, err := normalizeTrip(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip owned by userID.
// Returns domain.ErrNotFound if the trip does not exist for that user.
func (s *TripService) GetByID(ctx context.Context, userID, id int64) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all of the user's trips. Always non-nil.
func (s *TripService) List(ctx context.Context, userID int64) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of the user's trips and the total number of trips.
func (s *TripService) ListPaged(ctx context.Context, userID int64, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListPaged(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and persists changes to an existing trip.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// trip does not exist for trip.UserID.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip, err := normalizeTrip(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	updated, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip together with its stops and route steps.
func (s *TripService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// normalizeTrip enforces business rules common to both Create and Update.
//   - Destination must be non-empty after trimming.
//   - Both dates must be valid YYYY-MM-DD days.
//   - DepartureDate must not be before ArrivalDate.
//   - The trip lasts at most itinerary.MaxTripDays days.
func normalizeTrip(trip domain.Trip) (domain.Trip, error) {
	trip.Destination = strings.TrimSpace(trip.Destination)
	if trip.Destination == "" {
		return domain.Trip{}, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	arrival, err := itinerary.ParseDate("arrival date", trip.ArrivalDate)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	departure, err := itinerary.ParseDate("departure date", trip.DepartureDate)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if departure.Before(arrival) {
		return domain.Trip{}, fmt.Errorf("%w: departure date must be the same day or after arrival date", domain.ErrValidation)
	}
	trip.ArrivalDate = arrival.Format(itinerary.DateLayout)
	trip.DepartureDate = departure.Format(itinerary.DateLayout)
	n, err := itinerary.DayCount(trip.ArrivalDate, trip.DepartureDate)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if n > itinerary.MaxTripDays {
		return domain.Trip{}, fmt.Errorf("%w: a trip can last at most %d days", domain.ErrValidation, itinerary.MaxTripDays)
	}
	return trip, nil
}
