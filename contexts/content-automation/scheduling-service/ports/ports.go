package ports

import (
	"context"
	"time"

	"storyforge/contexts/content-automation/scheduling-service/domain/entities"
)

// ItemSource yields the items of a campaign that are eligible for
// publishing, in no particular order. statuses narrows eligibility to the
// caller's review states; an empty set falls back to the adapter default.
type ItemSource interface {
	ListSchedulable(ctx context.Context, campaignID string, statuses []string) ([]entities.ScheduleItem, error)
}

// SlotWriter persists assigned publish timestamps back onto items.
type SlotWriter interface {
	AssignSlot(ctx context.Context, itemID string, at time.Time) error
	ClearSlot(ctx context.Context, itemID string) error
}

// ScheduleReader reads back the current assignment of a campaign.
type ScheduleReader interface {
	ListSlots(ctx context.Context, campaignID string) ([]entities.PublishSlot, error)
}

// HourSuggester proposes posting hours for a campaign when the caller asks
// for suggestions instead of supplying hours.
type HourSuggester interface {
	SuggestHours(ctx context.Context, campaignID string) ([]int, error)
}

type Clock interface {
	Now() time.Time
}
