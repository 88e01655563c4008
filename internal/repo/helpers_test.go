package repo_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/repo"
	"github.com/pkordes/voya/testutil"
)

// repos bundles every repo over one rolled-back transaction so a test can
// create a user, their trips and stops together.
type repos struct {
	tx    pgx.Tx
	users repo.UserRepo
	trips repo.TripRepo
	stops repo.StopRepo
}

func newTestRepos(t *testing.T) repos {
	t.Helper()
	tx := testutil.NewTx(t)
	return repos{
		tx:    tx,
		users: repo.NewUserRepo(tx),
		trips: repo.NewTripRepo(tx),
		stops: repo.NewStopRepo(tx),
	}
}

var userSeq atomic.Int64

// mustCreateUser inserts a fully registered user with a unique email and username.
func mustCreateUser(t *testing.T, r repo.UserRepo) domain.User {
	t.Helper()
	ctx := context.Background()
	n := userSeq.Add(1)

	pending, err := r.CreatePending(ctx, fmt.Sprintf("traveller%d@example.com", n),
		fmt.Sprintf("token-%d-%d", n, time.Now().UnixNano()), time.Now().Add(time.Hour))
	require.NoError(t, err, "create pending user")

	u, err := r.CompleteRegistration(ctx, pending.ID, fmt.Sprintf("traveller%d", n), "$2a$04$hash")
	require.NoError(t, err, "complete registration")
	return u
}

func tripFixture(userID int64) domain.Trip {
	return domain.Trip{
		UserID:        userID,
		Destination:   "Lisbon",
		ArrivalDate:   "2024-06-01",
		DepartureDate: "2024-06-05",
	}
}

func mustCreateTrip(t *testing.T, r repo.TripRepo, userID int64) domain.Trip {
	t.Helper()
	trip, err := r.Create(context.Background(), tripFixture(userID))
	require.NoError(t, err, "create parent trip")
	return trip
}

func stopFixture(trip domain.Trip) domain.Stop {
	return domain.Stop{
		TripID:      trip.ID,
		UserID:      trip.UserID,
		Action:      "Visit",
		Time:        "10:00",
		Date:        "2024-06-02",
		Destination: "Belém Tower",
		Route:       "Tram 15 from Praça da Figueira",
		RouteSteps:  domain.NewRouteSteps([]string{"walk to Praça da Figueira", "tram 15 west", "get off at Belém"}),
	}
}
