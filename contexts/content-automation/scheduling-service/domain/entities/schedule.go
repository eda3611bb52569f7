package entities

import "time"

// ScheduleItem is the slice of a campaign item the planner needs: identity
// and its stable ordinal position, which decides slot order.
type ScheduleItem struct {
	ItemID     string
	OrderIndex int
}

// PublishSlot is one assigned (day, hour) publish timestamp.
type PublishSlot struct {
	ItemID     string
	OrderIndex int
	Day        time.Time
	Hour       int
	At         time.Time
}

// Window bounds the packing run. Dates are calendar days, inclusive; Hours
// is the ascending preferred-hour set the planner cycles through.
type Window struct {
	StartDate time.Time
	EndDate   time.Time
	MaxPerDay int
	Hours     []int
}

func (w Window) Valid() bool {
	if w.EndDate.Before(w.StartDate) {
		return false
	}
	if w.MaxPerDay < 1 {
		return false
	}
	if len(w.Hours) == 0 {
		return false
	}
	for _, hour := range w.Hours {
		if hour < 0 || hour > 23 {
			return false
		}
	}
	return true
}

// Days counts calendar days in the window, inclusive.
func (w Window) Days() int {
	start := truncateToDay(w.StartDate)
	end := truncateToDay(w.EndDate)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func (w Window) Capacity() int {
	return w.Days() * w.MaxPerDay
}

func truncateToDay(value time.Time) time.Time {
	v := value.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
}
