package entities

import "time"

type ItemStatus string
type Stage string

const (
	ItemStatusPending    ItemStatus = "pending"
	ItemStatusGenerating ItemStatus = "generating"
	ItemStatusCompleted  ItemStatus = "completed"
	ItemStatusFailed     ItemStatus = "failed"
	ItemStatusApproved   ItemStatus = "approved"
	ItemStatusRejected   ItemStatus = "rejected"

	StageScript    Stage = "script"
	StageScenes    Stage = "scenes"
	StageVisuals   Stage = "visuals"
	StageAudio     Stage = "audio"
	StageComposing Stage = "composing"
)

// StageOrder is the pipeline sequence every item walks. Later stages depend on
// earlier stage output, so there is no partial resume.
func StageOrder() []Stage {
	return []Stage{StageScript, StageScenes, StageVisuals, StageAudio, StageComposing}
}

type CampaignItem struct {
	ItemID        string
	CampaignID    string
	OrderIndex    int
	SourceIdea    string
	Status        ItemStatus
	Stage         Stage
	StageProgress int
	ResultRef     string
	ErrorMessage  string
	PublishAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InFlight reports whether the item is being worked on or is still queued.
func (i CampaignItem) InFlight() bool {
	return i.Status == ItemStatusPending || i.Status == ItemStatusGenerating
}

func (i CampaignItem) CanRegenerate() bool {
	return i.Status == ItemStatusFailed
}

func (i CampaignItem) CanApprove() bool {
	return i.Status == ItemStatusCompleted
}

func (i CampaignItem) CanReject() bool {
	return i.Status == ItemStatusCompleted || i.Status == ItemStatusFailed
}

// CanEditIdea holds until generation has started for the item; the source idea
// is immutable afterwards.
func (i CampaignItem) CanEditIdea() bool {
	return i.Status == ItemStatusPending
}

// CanTransition validates the item status graph. pending is reachable again
// only through the regenerate reset, which also clears stage and error fields.
func (i CampaignItem) CanTransition(to ItemStatus) bool {
	switch to {
	case ItemStatusPending:
		return i.Status == ItemStatusFailed
	case ItemStatusGenerating:
		return i.Status == ItemStatusPending
	case ItemStatusCompleted, ItemStatusFailed:
		return i.Status == ItemStatusGenerating
	case ItemStatusApproved:
		return i.CanApprove()
	case ItemStatusRejected:
		return i.CanReject()
	default:
		return false
	}
}

// ResetForRetry clears the failure and stage fields so the full stage sequence
// runs again from script.
func (i CampaignItem) ResetForRetry(now time.Time) CampaignItem {
	i.Status = ItemStatusPending
	i.Stage = ""
	i.StageProgress = 0
	i.ErrorMessage = ""
	i.PublishAt = nil
	i.UpdatedAt = now.UTC()
	return i
}
