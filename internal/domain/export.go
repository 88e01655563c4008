package domain

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per stop, with trip fields repeated
// for every stop on that trip. Trips with no stops yield one row with zero
// values for all stop fields.
type ExportRow struct {
	// Trip fields — repeated for every stop on the trip.
	TripID            int64
	TripDestination   string
	TripArrivalDate   string
	TripDepartureDate string

	// Stop fields — zero values when the trip has no stops.
	StopID          int64
	StopDate        string
	StopTime        string
	StopAction      string
	StopDestination string
	StopRoute       string

	// RouteSteps are the stop's route instructions in step order.
	RouteSteps []string
}
