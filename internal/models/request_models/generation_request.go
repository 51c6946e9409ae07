package request_models

const MusicSelectorCustom = "custom"

type GenerationRequest struct {
	StoryText      string `json:"story_text" binding:"required,max=1500"`
	VoiceID        string `json:"voice_id" binding:"required,max=100"`
	MusicSelector  string `json:"music_selector" binding:"required,max=100"`
	CustomMusicURL string `json:"custom_music_url" binding:"omitempty,url"`
	StoryType      string `json:"story_type" binding:"required,max=50"`
	Orientation    string `json:"orientation" binding:"omitempty,oneof=landscape vertical"`
	LengthTier     string `json:"length_tier" binding:"omitempty,oneof=default medium long"`
}

type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}
