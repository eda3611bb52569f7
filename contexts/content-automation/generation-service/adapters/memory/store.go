package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"storyforge/contexts/content-automation/generation-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	"storyforge/contexts/content-automation/generation-service/ports"

	"github.com/google/uuid"
)

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter used by tests and local runs. Items are
// stored per key, so a write touches exactly one record.
type Store struct {
	mu sync.RWMutex

	campaigns map[string]entities.Campaign
	items     map[string]entities.CampaignItem
	outbox    []*outboxRow
}

func NewStore(seed []entities.Campaign) *Store {
	campaigns := make(map[string]entities.Campaign, len(seed))
	for _, item := range seed {
		campaigns[item.CampaignID] = item
	}
	return &Store{
		campaigns: campaigns,
		items:     make(map[string]entities.CampaignItem),
	}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrInvalidCampaignInput
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) UpdateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return item, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if strings.TrimSpace(filter.WorkspaceID) != "" && campaign.WorkspaceID != strings.TrimSpace(filter.WorkspaceID) {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) CreateItem(_ context.Context, item entities.CampaignItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ItemID]; exists {
		return domainerrors.ErrInvalidCampaignInput
	}
	if _, exists := s.campaigns[item.CampaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	s.items[item.ItemID] = item
	return nil
}

func (s *Store) GetItem(_ context.Context, itemID string) (entities.CampaignItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[strings.TrimSpace(itemID)]
	if !exists {
		return entities.CampaignItem{}, domainerrors.ErrItemNotFound
	}
	return item, nil
}

func (s *Store) UpdateItem(_ context.Context, item entities.CampaignItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ItemID]; !exists {
		return domainerrors.ErrItemNotFound
	}
	s.items[item.ItemID] = item
	return nil
}

func (s *Store) DeleteItem(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[strings.TrimSpace(itemID)]; !exists {
		return domainerrors.ErrItemNotFound
	}
	delete(s.items, strings.TrimSpace(itemID))
	return nil
}

func (s *Store) ListItemsByCampaign(_ context.Context, campaignID string) ([]entities.CampaignItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.CampaignItem, 0)
	for _, item := range s.items {
		if item.CampaignID == strings.TrimSpace(campaignID) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].OrderIndex < items[j].OrderIndex
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, &outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt,
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		pending = append(pending, row.message)
		if limit > 0 && len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.outbox {
		if row.message.OutboxID == outboxID {
			row.published = true
			return nil
		}
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
