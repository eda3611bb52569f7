package entities

import (
	"strings"
	"time"
)

type CampaignStatus string
type CampaignKind string
type AutomationMode string

const (
	CampaignStatusDraft      CampaignStatus = "draft"
	CampaignStatusGenerating CampaignStatus = "generating"
	CampaignStatusPaused     CampaignStatus = "paused"
	CampaignStatusReview     CampaignStatus = "review"
	CampaignStatusCompleted  CampaignStatus = "completed"
	CampaignStatusCancelled  CampaignStatus = "cancelled"

	CampaignKindVideo CampaignKind = "video"
	CampaignKindStory CampaignKind = "story"

	AutomationManual AutomationMode = "manual"
	AutomationAuto   AutomationMode = "auto"
)

// VideoSettings carries fields only meaningful for video campaigns.
type VideoSettings struct {
	AspectRatio string
	VoiceID     string
}

// StorySettings carries fields only meaningful for story campaigns.
type StorySettings struct {
	Tone         string
	ChapterCount int
}

// ScheduleWindow bounds publish slot assignment.
// Dates are calendar days, inclusive on both ends.
type ScheduleWindow struct {
	StartDate      time.Time
	EndDate        time.Time
	MaxItemsPerDay int
	PreferredHours []int
	SuggestHours   bool
}

type Campaign struct {
	CampaignID  string
	WorkspaceID string
	Title       string
	Kind        CampaignKind
	Video       *VideoSettings
	Story       *StorySettings
	Automation  AutomationMode
	Window      ScheduleWindow
	Status      CampaignStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func (c Campaign) IsTerminal() bool {
	return c.Status == CampaignStatusCompleted || c.Status == CampaignStatusCancelled
}

// CanStartBatch reports whether startBatch is legal from the current status.
func (c Campaign) CanStartBatch() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusPaused
}

func (c Campaign) CanEditItems() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusReview
}

func (c Campaign) ValidateBasics() bool {
	title := strings.TrimSpace(c.Title)
	return title != "" &&
		len(title) >= 3 &&
		len(title) <= 200 &&
		strings.TrimSpace(c.WorkspaceID) != "" &&
		IsSupportedKind(c.Kind) &&
		IsSupportedAutomation(c.Automation) &&
		kindSettingsMatch(c)
}

// Validate checks the scheduling window invariants. Capacity against the
// item count is enforced at schedule time, not here, because the schedulable
// set changes after creation.
func (w ScheduleWindow) Validate() bool {
	if w.EndDate.Before(w.StartDate) {
		return false
	}
	if w.MaxItemsPerDay < 1 {
		return false
	}
	if !w.SuggestHours && len(w.PreferredHours) == 0 {
		return false
	}
	for _, hour := range w.PreferredHours {
		if hour < 0 || hour > 23 {
			return false
		}
	}
	return true
}

// DaysInWindow counts calendar days, inclusive.
func (w ScheduleWindow) DaysInWindow() int {
	start := truncateToDay(w.StartDate)
	end := truncateToDay(w.EndDate)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func (w ScheduleWindow) Capacity() int {
	return w.DaysInWindow() * w.MaxItemsPerDay
}

func IsSupportedKind(value CampaignKind) bool {
	switch value {
	case CampaignKindVideo, CampaignKindStory:
		return true
	default:
		return false
	}
}

func IsSupportedAutomation(value AutomationMode) bool {
	switch value {
	case AutomationManual, AutomationAuto:
		return true
	default:
		return false
	}
}

func kindSettingsMatch(c Campaign) bool {
	switch c.Kind {
	case CampaignKindVideo:
		return c.Story == nil
	case CampaignKindStory:
		return c.Video == nil
	default:
		return false
	}
}

func truncateToDay(value time.Time) time.Time {
	v := value.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
}
