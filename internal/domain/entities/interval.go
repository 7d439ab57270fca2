package entities

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether two half-open intervals intersect; touching
// endpoints do not.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Subtract returns the parts of i not covered by any of taken, in order.
// Empty pieces are dropped.
func (i Interval) Subtract(taken []Interval) []Interval {
	cuts := make([]Interval, 0, len(taken))
	for _, t := range taken {
		if t.Overlaps(i) {
			cuts = append(cuts, t)
		}
	}
	sort.Slice(cuts, func(a, b int) bool { return cuts[a].Start.Before(cuts[b].Start) })

	var free []Interval
	cursor := i.Start
	for _, c := range cuts {
		if c.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: c.Start})
		}
		if c.End.After(cursor) {
			cursor = c.End
		}
	}
	if cursor.Before(i.End) {
		free = append(free, Interval{Start: cursor, End: i.End})
	}
	return free
}
