package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ScheduleCampaignRequest struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	MaxItemsPerDay int    `json:"max_items_per_day"`
	PreferredHours []int  `json:"preferred_hours,omitempty"`
	SuggestHours   bool   `json:"suggest_hours"`
}

type PublishSlotDTO struct {
	ItemID     string `json:"item_id"`
	OrderIndex int    `json:"order_index"`
	Day        string `json:"day"`
	Hour       int    `json:"hour"`
	PublishAt  string `json:"publish_at"`
}

type ScheduleResponse struct {
	CampaignID string           `json:"campaign_id"`
	Slots      []PublishSlotDTO `json:"slots"`
}

// InfeasibleResponse reports the capacity arithmetic of a window that could
// not hold the requested item count.
type InfeasibleResponse struct {
	Error     string `json:"error"`
	Requested int    `json:"requested"`
	Capacity  int    `json:"capacity"`
	Shortfall int    `json:"shortfall"`
}
