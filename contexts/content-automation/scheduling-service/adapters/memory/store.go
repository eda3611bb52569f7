package memory

import (
	"context"
	"sync"
	"time"

	"storyforge/contexts/content-automation/scheduling-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/scheduling-service/domain/errors"
)

// defaultSchedulableStatuses is the fallback when the caller does not
// restrict eligibility.
var defaultSchedulableStatuses = []string{"completed", "approved"}

type itemRow struct {
	campaignID string
	status     string
	item       entities.ScheduleItem
	publishAt  *time.Time
}

// Store is the in-memory adapter used by tests and local runs. It holds the
// schedulable items per campaign plus their assigned publish timestamps.
type Store struct {
	mu sync.RWMutex

	rows map[string]*itemRow
}

func NewStore() *Store {
	return &Store{rows: make(map[string]*itemRow)}
}

// SeedItems registers items of a campaign in the given review status,
// replacing any previous rows for the same item IDs.
func (s *Store) SeedItems(campaignID string, status string, items []entities.ScheduleItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		s.rows[item.ItemID] = &itemRow{campaignID: campaignID, status: status, item: item}
	}
}

func (s *Store) ListSchedulable(_ context.Context, campaignID string, statuses []string) ([]entities.ScheduleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(statuses) == 0 {
		statuses = defaultSchedulableStatuses
	}
	allowed := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		allowed[status] = true
	}

	out := make([]entities.ScheduleItem, 0)
	for _, row := range s.rows {
		if row.campaignID == campaignID && allowed[row.status] {
			out = append(out, row.item)
		}
	}
	return out, nil
}

func (s *Store) AssignSlot(_ context.Context, itemID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.rows[itemID]
	if !exists {
		return domainerrors.ErrSlotNotFound
	}
	assigned := at.UTC()
	row.publishAt = &assigned
	return nil
}

func (s *Store) ClearSlot(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.rows[itemID]
	if !exists {
		return domainerrors.ErrSlotNotFound
	}
	row.publishAt = nil
	return nil
}

func (s *Store) ListSlots(_ context.Context, campaignID string) ([]entities.PublishSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.PublishSlot, 0)
	for _, row := range s.rows {
		if row.campaignID != campaignID || row.publishAt == nil {
			continue
		}
		at := *row.publishAt
		out = append(out, entities.PublishSlot{
			ItemID:     row.item.ItemID,
			OrderIndex: row.item.OrderIndex,
			Day:        time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
			Hour:       at.Hour(),
			At:         at,
		})
	}
	return out, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
