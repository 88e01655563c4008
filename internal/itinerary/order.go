package itinerary

import (
	"cmp"
	"slices"

	"github.com/pkordes/voya/internal/domain"
)

// OrderStops sorts stops by date, then time, then id, and projects each into
// a StopView with its route steps in step order.
//
// Dates and times compare as plain strings. A malformed time such as "9:00"
// sorts after "10:00"; that is accepted rather than rejected.
// The input slice is left untouched.
func OrderStops(stops []domain.Stop) []domain.StopView {
	sorted := slices.Clone(stops)
	slices.SortStableFunc(sorted, compareStops)

	views := make([]domain.StopView, len(sorted))
	for i, s := range sorted {
		views[i] = domain.StopView{
			ID:          s.ID,
			Date:        s.Date,
			Time:        s.Time,
			Destination: s.Destination,
			Action:      s.Action,
			Route:       s.Route,
			RouteSteps:  stepTexts(s.RouteSteps),
		}
	}
	return views
}

func compareStops(a, b domain.Stop) int {
	return cmp.Or(
		cmp.Compare(a.Date, b.Date),
		cmp.Compare(a.Time, b.Time),
		cmp.Compare(a.ID, b.ID),
	)
}

func stepTexts(steps []domain.RouteStep) []string {
	sorted := slices.Clone(steps)
	slices.SortStableFunc(sorted, func(a, b domain.RouteStep) int {
		return cmp.Compare(a.StepOrder, b.StepOrder)
	})

	texts := make([]string, len(sorted))
	for i, st := range sorted {
		texts[i] = st.Text
	}
	return texts
}
