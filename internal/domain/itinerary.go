package domain

// Itinerary is everything the itinerary page needs for one trip.
// SelectedDay is empty only when Days is empty.
type Itinerary struct {
	Trip        Trip
	Days        []string
	DaysToShow  []string
	WindowStart int
	SelectedDay string
	Stops       []StopView
}
