package domain

import "time"

// Stop is a dated, timed activity within a trip.
// Date is one of the trip's days ("2006-01-02"); Time is a free-form
// time-of-day string such as "09:30" and is ordered lexically.
type Stop struct {
	ID          int64
	TripID      int64
	UserID      int64
	Action      string
	Time        string
	Date        string
	Destination string
	Route       string
	RouteSteps  []RouteStep
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RouteStep is one instruction within a stop's route.
// StepOrder is zero-based and dense within its stop.
type RouteStep struct {
	ID        int64
	StopID    int64
	StepOrder int
	Text      string
}

// NewRouteSteps numbers texts 0..N-1 in the order given.
func NewRouteSteps(texts []string) []RouteStep {
	steps := make([]RouteStep, len(texts))
	for i, text := range texts {
		steps[i] = RouteStep{StepOrder: i, Text: text}
	}
	return steps
}

// StopView is the display projection of a Stop: its route steps flattened to
// their texts in step order.
type StopView struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Destination string   `json:"destination"`
	Action      string   `json:"action"`
	Route       string   `json:"route"`
	RouteSteps  []string `json:"route_steps"`
}
