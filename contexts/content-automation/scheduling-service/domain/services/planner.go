package services

import (
	"sort"
	"time"

	"storyforge/contexts/content-automation/scheduling-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/scheduling-service/domain/errors"
)

// PlanSlots packs items into the window deterministically: days are walked
// in order from StartDate, each day takes up to MaxPerDay items in
// OrderIndex order, and hours are consumed ascending, cycling within the
// day when a day holds more items than there are preferred hours. The same
// inputs always yield the same assignment.
func PlanSlots(items []entities.ScheduleItem, window entities.Window) ([]entities.PublishSlot, error) {
	if !window.Valid() {
		return nil, domainerrors.ErrInvalidScheduleWindow
	}
	if len(items) == 0 {
		return nil, domainerrors.ErrNoSchedulableItems
	}

	capacity := window.Capacity()
	if len(items) > capacity {
		return nil, domainerrors.NewInfeasibleError(len(items), capacity)
	}

	ordered := make([]entities.ScheduleItem, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	hours := normalizeHours(window.Hours)

	slots := make([]entities.PublishSlot, 0, len(ordered))
	day := truncateToDay(window.StartDate)
	inDay := 0
	for _, item := range ordered {
		if inDay == window.MaxPerDay {
			day = day.AddDate(0, 0, 1)
			inDay = 0
		}
		hour := hours[inDay%len(hours)]
		slots = append(slots, entities.PublishSlot{
			ItemID:     item.ItemID,
			OrderIndex: item.OrderIndex,
			Day:        day,
			Hour:       hour,
			At:         day.Add(time.Duration(hour) * time.Hour),
		})
		inDay++
	}

	return slots, nil
}

// normalizeHours sorts ascending and drops duplicates so the cycle order is
// stable regardless of how the caller listed the hours.
func normalizeHours(hours []int) []int {
	out := make([]int, 0, len(hours))
	seen := make(map[int]bool, len(hours))
	for _, hour := range hours {
		if seen[hour] {
			continue
		}
		seen[hour] = true
		out = append(out, hour)
	}
	sort.Ints(out)
	return out
}

func truncateToDay(value time.Time) time.Time {
	v := value.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
}
