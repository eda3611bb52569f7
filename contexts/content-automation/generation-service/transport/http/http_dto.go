package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type VideoSettingsDTO struct {
	AspectRatio string `json:"aspect_ratio"`
	VoiceID     string `json:"voice_id"`
}

type StorySettingsDTO struct {
	Tone         string `json:"tone"`
	ChapterCount int    `json:"chapter_count"`
}

type CreateCampaignRequest struct {
	Title          string            `json:"title"`
	Kind           string            `json:"kind"`
	Video          *VideoSettingsDTO `json:"video,omitempty"`
	Story          *StorySettingsDTO `json:"story,omitempty"`
	Automation     string            `json:"automation"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	MaxItemsPerDay int               `json:"max_items_per_day"`
	PreferredHours []int             `json:"preferred_hours"`
	SuggestHours   bool              `json:"suggest_hours"`
	Ideas          []string          `json:"ideas"`
}

type CampaignDTO struct {
	CampaignID     string            `json:"campaign_id"`
	WorkspaceID    string            `json:"workspace_id"`
	Title          string            `json:"title"`
	Kind           string            `json:"kind"`
	Video          *VideoSettingsDTO `json:"video,omitempty"`
	Story          *StorySettingsDTO `json:"story,omitempty"`
	Automation     string            `json:"automation"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	MaxItemsPerDay int               `json:"max_items_per_day"`
	PreferredHours []int             `json:"preferred_hours"`
	SuggestHours   bool              `json:"suggest_hours"`
	Status         string            `json:"status"`
	CreatedAt      string            `json:"created_at"`
	StartedAt      string            `json:"started_at,omitempty"`
	CompletedAt    string            `json:"completed_at,omitempty"`
}

type ItemDTO struct {
	ItemID        string `json:"item_id"`
	CampaignID    string `json:"campaign_id"`
	OrderIndex    int    `json:"order_index"`
	SourceIdea    string `json:"source_idea"`
	Status        string `json:"status"`
	Stage         string `json:"stage,omitempty"`
	StageProgress int    `json:"stage_progress"`
	ResultRef     string `json:"result_ref,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	PublishAt     string `json:"publish_at,omitempty"`
}

type CreateCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
	Items    []ItemDTO   `json:"items"`
}

type GetCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type ListCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
}

type ListItemsResponse struct {
	Items []ItemDTO `json:"items"`
}

type BatchProgressResponse struct {
	CampaignID      string `json:"campaign_id"`
	Total           int    `json:"total"`
	Completed       int    `json:"completed"`
	Failed          int    `json:"failed"`
	InProgress      int    `json:"in_progress"`
	Pending         int    `json:"pending"`
	CurrentIndex    *int   `json:"current_index,omitempty"`
	CurrentTopic    string `json:"current_topic,omitempty"`
	CurrentStage    string `json:"current_stage,omitempty"`
	CurrentProgress int    `json:"current_progress"`
}

type AcceptedResponse struct {
	Accepted bool `json:"accepted"`
}

type UpdateItemRequest struct {
	Status     *string `json:"status"`
	SourceIdea *string `json:"source_idea"`
}

type UpdateItemResponse struct {
	Item ItemDTO `json:"item"`
}

type AddIdeasRequest struct {
	Ideas []string `json:"ideas"`
}

type AddIdeasResponse struct {
	Items []ItemDTO `json:"items"`
}

type ApproveAllResponse struct {
	Count int `json:"count"`
}
