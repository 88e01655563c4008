// Package domain contains the core data types for the Voya trip planner.
// This package has zero external dependencies and is imported by every other
// internal package (itinerary, repo, service, handler).
package domain

import "time"

// Trip represents a user's planned visit to a destination.
// ArrivalDate and DepartureDate are inclusive calendar days formatted
// "2006-01-02"; the trip service guarantees DepartureDate >= ArrivalDate.
type Trip struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Destination   string    `json:"destination"`
	ArrivalDate   string    `json:"arrival_date"`
	DepartureDate string    `json:"departure_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
