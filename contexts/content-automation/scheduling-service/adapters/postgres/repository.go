package postgresadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storyforge/contexts/content-automation/scheduling-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/scheduling-service/domain/errors"

	"gorm.io/gorm"
)

// schedulableStatuses is the fallback filter when the caller does not
// restrict eligibility. Callers that own review semantics pass their own
// set: approved for manual review, completed for auto mode.
var schedulableStatuses = []string{"completed", "approved"}

// Repository maps the scheduler's ports onto the shared campaign item table.
// Scheduling owns exactly one column of it: publish_at.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type itemRow struct {
	ItemID     string     `gorm:"column:item_id;primaryKey"`
	CampaignID string     `gorm:"column:campaign_id;index"`
	OrderIndex int        `gorm:"column:order_index"`
	Status     string     `gorm:"column:status"`
	PublishAt  *time.Time `gorm:"column:publish_at"`
}

func (itemRow) TableName() string {
	return "generation_campaign_items"
}

func (r *Repository) ListSchedulable(ctx context.Context, campaignID string, statuses []string) ([]entities.ScheduleItem, error) {
	if len(statuses) == 0 {
		statuses = schedulableStatuses
	}
	var rows []itemRow
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Where("status IN ?", statuses).
		Order("order_index ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.ScheduleItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.ScheduleItem{
			ItemID:     row.ItemID,
			OrderIndex: row.OrderIndex,
		})
	}
	return items, nil
}

func (r *Repository) AssignSlot(ctx context.Context, itemID string, at time.Time) error {
	return r.writeSlot(ctx, itemID, ptrTime(at.UTC()))
}

func (r *Repository) ClearSlot(ctx context.Context, itemID string) error {
	return r.writeSlot(ctx, itemID, nil)
}

func (r *Repository) writeSlot(ctx context.Context, itemID string, at *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&itemRow{}).
		Where("item_id = ?", strings.TrimSpace(itemID)).
		Update("publish_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSlotNotFound
	}
	return nil
}

func (r *Repository) ListSlots(ctx context.Context, campaignID string) ([]entities.PublishSlot, error) {
	var rows []itemRow
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Where("publish_at IS NOT NULL").
		Order("publish_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	slots := make([]entities.PublishSlot, 0, len(rows))
	for _, row := range rows {
		if row.PublishAt == nil {
			continue
		}
		at := row.PublishAt.UTC()
		slots = append(slots, entities.PublishSlot{
			ItemID:     row.ItemID,
			OrderIndex: row.OrderIndex,
			Day:        time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
			Hour:       at.Hour(),
			At:         at,
		})
	}
	return slots, nil
}

func ptrTime(value time.Time) *time.Time {
	return &value
}
