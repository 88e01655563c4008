package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/service"
)

func TestExportService_Export_TripWithStops(t *testing.T) {
	trip := storedTrip()
	svc := service.NewExportService(
		&mockTripRepo{
			list: func(_ context.Context, userID int64) ([]domain.Trip, error) {
				assert.Equal(t, testUserID, userID)
				return []domain.Trip{trip}, nil
			},
		},
		&mockStopRepo{
			listByTrip: func(_ context.Context, _, _ int64, day string) ([]domain.Stop, error) {
				assert.Empty(t, day)
				return []domain.Stop{
					{ID: 2, Date: "2025-06-02", Time: "12:00", Action: "Lunch"},
					{ID: 1, Date: "2025-06-01", Time: "15:00", Action: "Check in", Destination: "Hotel",
						Route: "taxi", RouteSteps: []domain.RouteStep{{StepOrder: 1, Text: "pay"}, {StepOrder: 0, Text: "hail"}}},
				}, nil
			},
		},
	)

	rows, err := svc.Export(context.Background(), testUserID)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	first := rows[0]
	assert.Equal(t, trip.ID, first.TripID)
	assert.Equal(t, "Kyoto", first.TripDestination)
	assert.Equal(t, "2025-06-01", first.TripArrivalDate)
	assert.Equal(t, "2025-06-04", first.TripDepartureDate)
	assert.Equal(t, int64(1), first.StopID)
	assert.Equal(t, "Check in", first.StopAction)
	assert.Equal(t, "Hotel", first.StopDestination)
	assert.Equal(t, "taxi", first.StopRoute)
	assert.Equal(t, []string{"hail", "pay"}, first.RouteSteps)
	assert.Equal(t, int64(2), rows[1].StopID)
}

func TestExportService_Export_TripWithNoStops(t *testing.T) {
	svc := service.NewExportService(
		&mockTripRepo{
			list: func(_ context.Context, _ int64) ([]domain.Trip, error) { return []domain.Trip{storedTrip()}, nil },
		},
		&mockStopRepo{
			listByTrip: func(_ context.Context, _, _ int64, _ string) ([]domain.Stop, error) { return nil, nil },
		},
	)

	rows, err := svc.Export(context.Background(), testUserID)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kyoto", rows[0].TripDestination)
	assert.Zero(t, rows[0].StopID)
	assert.Empty(t, rows[0].StopAction)
}

func TestExportService_Export_NoTrips(t *testing.T) {
	svc := service.NewExportService(
		&mockTripRepo{
			list: func(_ context.Context, _ int64) ([]domain.Trip, error) { return nil, nil },
		},
		&mockStopRepo{},
	)

	rows, err := svc.Export(context.Background(), testUserID)

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_Export_StopRepoError(t *testing.T) {
	repoErr := errors.New("boom")
	svc := service.NewExportService(
		&mockTripRepo{
			list: func(_ context.Context, _ int64) ([]domain.Trip, error) { return []domain.Trip{storedTrip()}, nil },
		},
		&mockStopRepo{
			listByTrip: func(_ context.Context, _, _ int64, _ string) ([]domain.Stop, error) { return nil, repoErr },
		},
	)

	_, err := svc.Export(context.Background(), testUserID)

	assert.ErrorIs(t, err, repoErr)
}

func TestExportService_Export_TripRepoError(t *testing.T) {
	repoErr := errors.New("boom")
	svc := service.NewExportService(
		&mockTripRepo{
			list: func(_ context.Context, _ int64) ([]domain.Trip, error) { return nil, repoErr },
		},
		&mockStopRepo{},
	)

	_, err := svc.Export(context.Background(), testUserID)

	assert.ErrorIs(t, err, repoErr)
}
