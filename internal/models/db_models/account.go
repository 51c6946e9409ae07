package db_models

// Account is a principal. IsAdmin only changes through the admin override
// channel.
type Account struct {
	BaseModel
	Email   string `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	Name    string `gorm:"type:varchar(200)" json:"name"`
	IsAdmin bool   `gorm:"not null;default:false" json:"is_admin"`
}
