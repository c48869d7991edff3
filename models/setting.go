package models

import (
	"context"
	"errors"
	"time"
)

// Setting holds the per-business flags. One row per business.
type Setting struct {
	SyncBase
	BusinessId     uint       `gorm:"index;not null" json:"businessId"`
	BackupEnabled  bool       `gorm:"not null" json:"backupEnabled"`
	PrivacyEnabled bool       `gorm:"not null" json:"privacyEnabled"`
	LastBackupDate *time.Time `json:"lastBackupDate,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"-"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"-"`
}

func (Setting) TableName() string { return "settings" }

// GetOrCreateSetting returns the business's settings row, creating the
// default one on first access.
func GetOrCreateSetting(ctx context.Context) (*Setting, error) {
	businessId, ok := GetBusinessIdOrError(ctx)
	if !ok {
		return nil, errors.New("business id is required")
	}

	var setting Setting
	err := dbWithContext(ctx).Where("business_id = ?", businessId).First(&setting).Error
	if err == nil {
		return &setting, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	setting = Setting{BusinessId: businessId}
	if _, err := Insert(ctx, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

// TouchLastBackupDate stamps the settings row after a successful export.
func TouchLastBackupDate(ctx context.Context, at time.Time) error {
	setting, err := GetOrCreateSetting(ctx)
	if err != nil {
		return err
	}
	return UpdateByLocalID[Setting](ctx, setting.LocalID, map[string]interface{}{
		"last_backup_date": at,
	})
}
