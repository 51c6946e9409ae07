package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GenerationRecord is one settled generation. Rows are append-only.
type GenerationRecord struct {
	BaseModel
	AccountID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_generation_account_created,priority:1" json:"account_id"`
	TraceID       string     `gorm:"type:varchar(64);index" json:"trace_id"`
	StoryExcerpt  string     `gorm:"type:varchar(600)" json:"story_excerpt"`
	StoryDigest   string     `gorm:"type:char(64)" json:"story_digest"`
	VoiceID       string     `gorm:"type:varchar(100)" json:"voice_id"`
	MusicSelector string     `gorm:"type:varchar(100)" json:"music_selector"`
	MusicURL      string     `json:"music_url"`
	StoryType     string     `gorm:"type:varchar(50)" json:"story_type"`
	Orientation   string     `gorm:"type:varchar(16)" json:"orientation"`
	LengthTier    LengthTier `gorm:"type:varchar(16)" json:"length_tier"`
	UnitCost      int64      `gorm:"not null" json:"unit_cost"`
	// UnitsCharged is 0 when an unrestricted account ran past its limit.
	UnitsCharged int64          `gorm:"not null" json:"units_charged"`
	Unrestricted bool           `gorm:"not null;default:false" json:"unrestricted"`
	VideoURL     string         `gorm:"not null" json:"video_url"`
	Artifacts    datatypes.JSON `json:"artifacts"`
	SettledAt    int64          `gorm:"not null;index:idx_generation_account_created,priority:2" json:"settled_at"`
}
