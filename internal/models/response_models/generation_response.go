package response_models

type GenerationResponse struct {
	RecordID     string               `json:"record_id"`
	VideoURL     string               `json:"video_url"`
	AudioURL     string               `json:"audio_url,omitempty"`
	ImageURL     string               `json:"image_url,omitempty"`
	UnitCost     int64                `json:"unit_cost"`
	UnitsCharged int64                `json:"units_charged"`
	Subscription SubscriptionResponse `json:"subscription"`
}

type GenerationHistoryItem struct {
	ID           string `json:"id"`
	StoryExcerpt string `json:"story_excerpt"`
	VoiceID      string `json:"voice_id"`
	StoryType    string `json:"story_type"`
	Orientation  string `json:"orientation"`
	LengthTier   string `json:"length_tier"`
	UnitCost     int64  `json:"unit_cost"`
	UnitsCharged int64  `json:"units_charged"`
	VideoURL     string `json:"video_url"`
	SettledAt    string `json:"settled_at"`
}

type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}
