package models

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/utils"
	"gorm.io/gorm"
)

// The local store contract every synced table exposes: read everything,
// insert, partial update by local id, fetch by local id, and look up the
// row linked to a remote document. All operations go through the shared
// GORM handle and honor the tenant guard unless the context bypasses it.

func dbWithContext(ctx context.Context) *gorm.DB {
	return config.GetDB().WithContext(ctx)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func GetBusinessIdOrError(ctx context.Context) (uint, bool) {
	return utils.GetBusinessIdFromContext(ctx)
}

// GetAll returns every row of the table visible to the context. With the
// tenant scope bypassed this is the entire table across businesses.
func GetAll[T any](ctx context.Context) ([]T, error) {
	var rows []T
	if err := dbWithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert creates the row and returns the local identifier the store
// assigned to it.
func Insert[T SyncedRecord](ctx context.Context, row *T) (uint, error) {
	if err := dbWithContext(ctx).Create(row).Error; err != nil {
		return 0, err
	}
	return (*row).GetLocalID(), nil
}

// UpdateByLocalID applies a partial update to one row.
func UpdateByLocalID[T any](ctx context.Context, localID uint, values map[string]interface{}) error {
	var model T
	return dbWithContext(ctx).Model(&model).Where("local_id = ?", localID).Updates(values).Error
}

// Get fetches a row by local id. Returns ErrorRecordNotFound when absent.
func Get[T any](ctx context.Context, localID uint) (*T, error) {
	var row T
	err := dbWithContext(ctx).Where("local_id = ?", localID).First(&row).Error
	if isNotFound(err) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindOneByRemoteID fetches the row linked to a remote document. Returns
// ErrorRecordNotFound when no local row carries that remote id.
func FindOneByRemoteID[T any](ctx context.Context, remoteID string) (*T, error) {
	var row T
	err := dbWithContext(ctx).Where("remote_id = ?", remoteID).First(&row).Error
	if isNotFound(err) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Overwrite saves the row wholesale, zero fields included. The pull phase
// uses this so remote data always wins over whatever was local. Columns
// that never cross the wire are excluded: the incoming row has no values
// for them, and erasing ReceiptBlob would destroy an attachment still
// waiting for upload.
func Overwrite[T SyncedRecord](ctx context.Context, row *T) error {
	return dbWithContext(ctx).Omit("CreatedAt", "ReceiptBlob").Save(row).Error
}

// validateBusinessRef checks a cross-entity local reference points at a
// row of the same business.
func validateBusinessRef[T any](ctx context.Context, businessId uint, localID uint) error {
	var model T
	var count int64
	err := dbWithContext(ctx).Model(&model).
		Where("local_id = ? AND business_id = ?", localID, businessId).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count <= 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
