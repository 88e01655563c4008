package service

import (
	"context"
	"fmt"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/itinerary"
	"github.com/pkordes/voya/internal/repo"
)

// ExportService assembles a full flat export of a user's trips and stops.
type ExportService struct {
	trips repo.TripRepo
	stops repo.StopRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, stops repo.StopRepo) *ExportService {
	return &ExportService{trips: trips, stops: stops}
}

// Export returns one ExportRow per stop across all of the user's trips.
// Trips come in arrival order and stops in itinerary order.
// Trips with no stops contribute one row with empty stop fields.
func (s *ExportService) Export(ctx context.Context, userID int64) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, trip := range trips {
		stops, err := s.stops.ListByTrip(ctx, userID, trip.ID, "")
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: trip %d: %w", trip.ID, err)
		}

		base := domain.ExportRow{
			TripID:            trip.ID,
			TripDestination:   trip.Destination,
			TripArrivalDate:   trip.ArrivalDate,
			TripDepartureDate: trip.DepartureDate,
		}
		if len(stops) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, v := range itinerary.OrderStops(stops) {
			row := base
			row.StopID = v.ID
			row.StopDate = v.Date
			row.StopTime = v.Time
			row.StopAction = v.Action
			row.StopDestination = v.Destination
			row.StopRoute = v.Route
			row.RouteSteps = v.RouteSteps
			rows = append(rows, row)
		}
	}
	return rows, nil
}
