package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/voya/internal/domain"
)

// StopRepo defines the persistence operations for Stops and their route steps.
// All operations are scoped by trip and owner.
type StopRepo interface {
	// Create inserts a stop together with its route steps in one transaction
	// and returns the persisted record.
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// GetByID retrieves a single stop with its route steps.
	// Returns domain.ErrNotFound if no such stop exists under that trip and owner.
	GetByID(ctx context.Context, userID, tripID, stopID int64) (domain.Stop, error)

	// ListByTrip returns a trip's stops with their route steps. When day is
	// non-empty only stops on that date are returned.
	ListByTrip(ctx context.Context, userID, tripID int64, day string) ([]domain.Stop, error)

	// Update overwrites action, time, destination and route, and replaces the
	// route steps wholesale. The stop's date is not changed.
	// Returns domain.ErrNotFound if no such stop exists under that trip and owner.
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// Delete removes a stop and, by cascade, its route steps.
	// Returns domain.ErrNotFound if no such stop exists under that trip and owner.
	Delete(ctx context.Context, userID, tripID, stopID int64) error
}

type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, trip_id, user_id, action, stop_time, stop_date, destination, route, created_at, updated_at`

func (r *pgStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (trip_id, user_id, action, stop_time, stop_date, destination, route)
		VALUES (@trip_id, @user_id, @action, @stop_time, @stop_date, @destination, @route)
		RETURNING ` + stopColumns

	args := pgx.NamedArgs{
		"trip_id":     stop.TripID,
		"user_id":     stop.UserID,
		"action":      stop.Action,
		"stop_time":   stop.Time,
		"stop_date":   stop.Date,
		"destination": stop.Destination,
		"route":       stop.Route,
	}

	var result domain.Stop
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = scanStop(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}
		result.RouteSteps, err = replaceSteps(ctx, tx, result.ID, stop.RouteSteps)
		return err
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) GetByID(ctx context.Context, userID, tripID, stopID int64) (domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE id = @id AND trip_id = @trip_id AND user_id = @user_id`

	stop, err := scanStop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": stopID, "trip_id": tripID, "user_id": userID}))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", err)
	}

	steps, err := loadSteps(ctx, r.db, []int64{stop.ID})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", err)
	}
	stop.RouteSteps = steps[stop.ID]
	return stop, nil
}

func (r *pgStopRepo) ListByTrip(ctx context.Context, userID, tripID int64, day string) ([]domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE trip_id = @trip_id
		  AND user_id = @user_id
		  AND (@day::text = '' OR stop_date = @day::text)
		ORDER BY stop_date, stop_time, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID, "day": day})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	stops := []domain.Stop{}
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.ListByTrip: scan: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTrip: rows: %w", err)
	}
	if len(stops) == 0 {
		return stops, nil
	}

	ids := make([]int64, len(stops))
	for i, s := range stops {
		ids[i] = s.ID
	}
	steps, err := loadSteps(ctx, r.db, ids)
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTrip: %w", err)
	}
	for i := range stops {
		stops[i].RouteSteps = steps[stops[i].ID]
	}
	return stops, nil
}

func (r *pgStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		UPDATE stops
		SET action      = @action,
		    stop_time   = @stop_time,
		    destination = @destination,
		    route       = @route,
		    updated_at  = now()
		WHERE id = @id AND trip_id = @trip_id AND user_id = @user_id
		RETURNING ` + stopColumns

	args := pgx.NamedArgs{
		"id":          stop.ID,
		"trip_id":     stop.TripID,
		"user_id":     stop.UserID,
		"action":      stop.Action,
		"stop_time":   stop.Time,
		"destination": stop.Destination,
		"route":       stop.Route,
	}

	var result domain.Stop
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = scanStop(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}
		result.RouteSteps, err = replaceSteps(ctx, tx, result.ID, stop.RouteSteps)
		return err
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) Delete(ctx context.Context, userID, tripID, stopID int64) error {
	const q = `DELETE FROM stops WHERE id = @id AND trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": stopID, "trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// replaceSteps deletes every route step of stopID and inserts steps with
// step_order 0..N-1 in slice order. It returns the stored steps.
func replaceSteps(ctx context.Context, tx pgx.Tx, stopID int64, steps []domain.RouteStep) ([]domain.RouteStep, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM route_steps WHERE stop_id = @stop_id`, pgx.NamedArgs{"stop_id": stopID}); err != nil {
		return nil, fmt.Errorf("delete route steps: %w", err)
	}
	if len(steps) == 0 {
		return []domain.RouteStep{}, nil
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"route_steps"},
		[]string{"stop_id", "step_order", "step_text"},
		pgx.CopyFromSlice(len(steps), func(i int) ([]any, error) {
			return []any{stopID, i, steps[i].Text}, nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("insert route steps: %w", err)
	}

	stored, err := loadSteps(ctx, tx, []int64{stopID})
	if err != nil {
		return nil, err
	}
	return stored[stopID], nil
}

// loadSteps fetches the route steps of the given stops, keyed by stop ID and
// ordered by step_order. Stops without steps map to an empty slice.
func loadSteps(ctx context.Context, conn db, stopIDs []int64) (map[int64][]domain.RouteStep, error) {
	const q = `
		SELECT id, stop_id, step_order, step_text
		FROM route_steps
		WHERE stop_id = ANY(@stop_ids)
		ORDER BY stop_id, step_order`

	rows, err := conn.Query(ctx, q, pgx.NamedArgs{"stop_ids": stopIDs})
	if err != nil {
		return nil, fmt.Errorf("load route steps: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.RouteStep, len(stopIDs))
	for _, id := range stopIDs {
		out[id] = []domain.RouteStep{}
	}
	for rows.Next() {
		var st domain.RouteStep
		if err := rows.Scan(&st.ID, &st.StopID, &st.StepOrder, &st.Text); err != nil {
			return nil, fmt.Errorf("load route steps: scan: %w", err)
		}
		out[st.StopID] = append(out[st.StopID], st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load route steps: rows: %w", err)
	}
	return out, nil
}

func scanStop(s scanner) (domain.Stop, error) {
	var st domain.Stop
	err := s.Scan(&st.ID, &st.TripID, &st.UserID, &st.Action, &st.Time, &st.Date,
		&st.Destination, &st.Route, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}
	return st, nil
}
