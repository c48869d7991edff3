package models

import "time"

// Business is the tenant root. Every other synced entity belongs to
// exactly one business through its BusinessId field.
type Business struct {
	SyncBase
	Name      string    `gorm:"size:100;not null" json:"name"`
	Currency  string    `gorm:"size:10;not null" json:"currency"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Email     string    `gorm:"size:100" json:"email"`
	Address   string    `gorm:"size:255" json:"address"`
	Logo      string    `gorm:"size:255" json:"logo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Business) TableName() string { return "businesses" }
