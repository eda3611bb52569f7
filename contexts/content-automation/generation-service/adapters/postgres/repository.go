package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"storyforge/contexts/content-automation/generation-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	"storyforge/contexts/content-automation/generation-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

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

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row, err := campaignModelFromEntity(campaign)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row, err := campaignModelFromEntity(campaign)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", row.CampaignID).
		Updates(map[string]any{
			"workspace_id":      row.WorkspaceID,
			"title":             row.Title,
			"kind":              row.Kind,
			"kind_settings":     row.KindSettings,
			"automation":        row.Automation,
			"window_start":      row.WindowStart,
			"window_end":        row.WindowEnd,
			"max_items_per_day": row.MaxItemsPerDay,
			"preferred_hours":   row.PreferredHours,
			"suggest_hours":     row.SuggestHours,
			"status":            row.Status,
			"updated_at":        row.UpdatedAt,
			"started_at":        row.StartedAt,
			"completed_at":      row.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if strings.TrimSpace(filter.WorkspaceID) != "" {
		tx = tx.Where("workspace_id = ?", strings.TrimSpace(filter.WorkspaceID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) CreateItem(ctx context.Context, item entities.CampaignItem) error {
	row := itemModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetItem(ctx context.Context, itemID string) (entities.CampaignItem, error) {
	var row itemModel
	err := r.db.WithContext(ctx).
		Where("item_id = ?", strings.TrimSpace(itemID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CampaignItem{}, domainerrors.ErrItemNotFound
		}
		return entities.CampaignItem{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateItem(ctx context.Context, item entities.CampaignItem) error {
	row := itemModelFromEntity(item)
	result := r.db.WithContext(ctx).
		Model(&itemModel{}).
		Where("item_id = ?", row.ItemID).
		Updates(map[string]any{
			"source_idea":    row.SourceIdea,
			"status":         row.Status,
			"stage":          row.Stage,
			"stage_progress": row.StageProgress,
			"result_ref":     row.ResultRef,
			"error_message":  row.ErrorMessage,
			"publish_at":     row.PublishAt,
			"updated_at":     row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrItemNotFound
	}
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, itemID string) error {
	result := r.db.WithContext(ctx).
		Where("item_id = ?", strings.TrimSpace(itemID)).
		Delete(&itemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrItemNotFound
	}
	return nil
}

func (r *Repository) ListItemsByCampaign(ctx context.Context, campaignID string) ([]entities.CampaignItem, error) {
	var rows []itemModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("order_index ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.CampaignItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		}).
		Error
}

type campaignModel struct {
	CampaignID     string     `gorm:"column:campaign_id;primaryKey"`
	WorkspaceID    string     `gorm:"column:workspace_id"`
	Title          string     `gorm:"column:title"`
	Kind           string     `gorm:"column:kind"`
	KindSettings   []byte     `gorm:"column:kind_settings;type:jsonb"`
	Automation     string     `gorm:"column:automation"`
	WindowStart    time.Time  `gorm:"column:window_start"`
	WindowEnd      time.Time  `gorm:"column:window_end"`
	MaxItemsPerDay int        `gorm:"column:max_items_per_day"`
	PreferredHours []byte     `gorm:"column:preferred_hours;type:jsonb"`
	SuggestHours   bool       `gorm:"column:suggest_hours"`
	Status         string     `gorm:"column:status"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
	StartedAt      *time.Time `gorm:"column:started_at"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
}

func (campaignModel) TableName() string {
	return "generation_campaigns"
}

type kindSettingsPayload struct {
	Video *entities.VideoSettings `json:"video,omitempty"`
	Story *entities.StorySettings `json:"story,omitempty"`
}

func campaignModelFromEntity(item entities.Campaign) (campaignModel, error) {
	settings, err := json.Marshal(kindSettingsPayload{Video: item.Video, Story: item.Story})
	if err != nil {
		return campaignModel{}, err
	}
	hours, err := json.Marshal(item.Window.PreferredHours)
	if err != nil {
		return campaignModel{}, err
	}
	return campaignModel{
		CampaignID:     strings.TrimSpace(item.CampaignID),
		WorkspaceID:    strings.TrimSpace(item.WorkspaceID),
		Title:          strings.TrimSpace(item.Title),
		Kind:           string(item.Kind),
		KindSettings:   settings,
		Automation:     string(item.Automation),
		WindowStart:    item.Window.StartDate.UTC(),
		WindowEnd:      item.Window.EndDate.UTC(),
		MaxItemsPerDay: item.Window.MaxItemsPerDay,
		PreferredHours: hours,
		SuggestHours:   item.Window.SuggestHours,
		Status:         string(item.Status),
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
		StartedAt:      normalizeOptionalTime(item.StartedAt),
		CompletedAt:    normalizeOptionalTime(item.CompletedAt),
	}, nil
}

func (m campaignModel) toEntity() (entities.Campaign, error) {
	var settings kindSettingsPayload
	if len(m.KindSettings) > 0 {
		if err := json.Unmarshal(m.KindSettings, &settings); err != nil {
			return entities.Campaign{}, err
		}
	}
	var hours []int
	if len(m.PreferredHours) > 0 {
		if err := json.Unmarshal(m.PreferredHours, &hours); err != nil {
			return entities.Campaign{}, err
		}
	}
	return entities.Campaign{
		CampaignID:  m.CampaignID,
		WorkspaceID: m.WorkspaceID,
		Title:       m.Title,
		Kind:        entities.CampaignKind(m.Kind),
		Video:       settings.Video,
		Story:       settings.Story,
		Automation:  entities.AutomationMode(m.Automation),
		Window: entities.ScheduleWindow{
			StartDate:      m.WindowStart.UTC(),
			EndDate:        m.WindowEnd.UTC(),
			MaxItemsPerDay: m.MaxItemsPerDay,
			PreferredHours: hours,
			SuggestHours:   m.SuggestHours,
		},
		Status:      entities.CampaignStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		StartedAt:   normalizeOptionalTime(m.StartedAt),
		CompletedAt: normalizeOptionalTime(m.CompletedAt),
	}, nil
}

type itemModel struct {
	ItemID        string     `gorm:"column:item_id;primaryKey"`
	CampaignID    string     `gorm:"column:campaign_id;index"`
	OrderIndex    int        `gorm:"column:order_index"`
	SourceIdea    string     `gorm:"column:source_idea"`
	Status        string     `gorm:"column:status"`
	Stage         string     `gorm:"column:stage"`
	StageProgress int        `gorm:"column:stage_progress"`
	ResultRef     string     `gorm:"column:result_ref"`
	ErrorMessage  string     `gorm:"column:error_message"`
	PublishAt     *time.Time `gorm:"column:publish_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (itemModel) TableName() string {
	return "generation_campaign_items"
}

func itemModelFromEntity(item entities.CampaignItem) itemModel {
	return itemModel{
		ItemID:        strings.TrimSpace(item.ItemID),
		CampaignID:    strings.TrimSpace(item.CampaignID),
		OrderIndex:    item.OrderIndex,
		SourceIdea:    item.SourceIdea,
		Status:        string(item.Status),
		Stage:         string(item.Stage),
		StageProgress: item.StageProgress,
		ResultRef:     item.ResultRef,
		ErrorMessage:  item.ErrorMessage,
		PublishAt:     normalizeOptionalTime(item.PublishAt),
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (m itemModel) toEntity() entities.CampaignItem {
	return entities.CampaignItem{
		ItemID:        m.ItemID,
		CampaignID:    m.CampaignID,
		OrderIndex:    m.OrderIndex,
		SourceIdea:    m.SourceIdea,
		Status:        entities.ItemStatus(m.Status),
		Stage:         entities.Stage(m.Stage),
		StageProgress: m.StageProgress,
		ResultRef:     m.ResultRef,
		ErrorMessage:  m.ErrorMessage,
		PublishAt:     normalizeOptionalTime(m.PublishAt),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload;type:jsonb"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "generation_outbox"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
