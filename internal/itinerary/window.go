package itinerary

import "slices"

// WindowSize is the number of days the itinerary shows at once.
const WindowSize = 4

// Window is the visible slice of a trip's days.
type Window struct {
	// SelectedDay is the day whose stops are displayed. Empty only when the
	// trip has no days.
	SelectedDay string
	// Start is the index into the full day sequence of Days[0].
	Start int
	// Days holds at most WindowSize consecutive days starting at Start.
	Days []string
}

// SelectWindow picks the selected day and the visible window of days.
//
// requestedDay wins when it is one of days; otherwise the first day is
// selected. requestedStart is shifted just enough to keep the selected day
// visible, then clamped so the window never starts before the first day and,
// given at least WindowSize days, always shows a full window.
func SelectWindow(days []string, requestedDay string, requestedStart int) Window {
	w := Window{Start: requestedStart}

	sel := slices.Index(days, requestedDay)
	if sel < 0 && len(days) > 0 {
		sel = 0
	}

	if sel >= 0 {
		w.SelectedDay = days[sel]
		switch {
		case sel < w.Start:
			w.Start = sel
		case sel >= w.Start+WindowSize:
			w.Start = max(0, sel-(WindowSize-1))
		}
	}

	w.Start = max(0, min(w.Start, max(0, len(days)-WindowSize)))
	end := min(w.Start+WindowSize, len(days))
	w.Days = slices.Clone(days[w.Start:end])
	if w.Days == nil {
		w.Days = []string{}
	}
	return w
}
