package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/models"
	"bitbucket.org/mmdatafocus/cashbook/utils"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Row wraps one record together with the identifiers its json tags hide.
// Local ids must survive a backup round-trip: cross-entity references
// (partyId, staffId, itemId, businessId) point at them.
type Row[T any] struct {
	LocalId  uint   `json:"localId"`
	RemoteId string `json:"remoteId,omitempty"`
	Data     T      `json:"data"`
}

// Snapshot is the full-store backup document. Table fields are pointers
// so a missing key is distinguishable from an empty table and fails
// validation before any destructive write.
type Snapshot struct {
	Version      int                        `json:"version" validate:"required,gt=0"`
	ExportedAt   time.Time                  `json:"exportedAt" validate:"required"`
	Businesses   *[]Row[models.Business]    `json:"businesses" validate:"required"`
	Categories   *[]Row[models.Category]    `json:"categories" validate:"required"`
	Parties      *[]Row[models.Party]       `json:"parties" validate:"required"`
	Items        *[]Row[models.Item]        `json:"items" validate:"required"`
	Staff        *[]Row[models.Staff]       `json:"staff" validate:"required"`
	Transactions *[]Row[models.Transaction] `json:"transactions" validate:"required"`
	Settings     *[]Row[models.Setting]     `json:"settings" validate:"required"`
}

var validate = validator.New()

func collectRows[T models.SyncedRecord](ctx context.Context) (*[]Row[T], error) {
	records, err := models.GetAll[T](ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row[T], 0, len(records))
	for _, record := range records {
		rows = append(rows, Row[T]{
			LocalId:  record.GetLocalID(),
			RemoteId: record.GetRemoteID(),
			Data:     record,
		})
	}
	return &rows, nil
}

// Export serializes every table into a snapshot and stamps each
// business's lastBackupDate.
func Export(ctx context.Context) ([]byte, error) {
	ctx = utils.SkipTenantScope(ctx)

	snapshot := Snapshot{
		Version:    models.SchemaVersion,
		ExportedAt: time.Now(),
	}

	var err error
	if snapshot.Businesses, err = collectRows[models.Business](ctx); err != nil {
		return nil, err
	}
	if snapshot.Categories, err = collectRows[models.Category](ctx); err != nil {
		return nil, err
	}
	if snapshot.Parties, err = collectRows[models.Party](ctx); err != nil {
		return nil, err
	}
	if snapshot.Items, err = collectRows[models.Item](ctx); err != nil {
		return nil, err
	}
	if snapshot.Staff, err = collectRows[models.Staff](ctx); err != nil {
		return nil, err
	}
	if snapshot.Transactions, err = collectRows[models.Transaction](ctx); err != nil {
		return nil, err
	}
	if snapshot.Settings, err = collectRows[models.Setting](ctx); err != nil {
		return nil, err
	}

	data, err := json.Marshal(&snapshot)
	if err != nil {
		return nil, err
	}

	for _, business := range *snapshot.Businesses {
		bizCtx := utils.SetBusinessIdInContext(ctx, business.LocalId)
		if err := models.TouchLastBackupDate(bizCtx, snapshot.ExportedAt); err != nil {
			config.LogError(config.GetLogger(), "backup", "Export", "stamp last backup date", business.LocalId, err)
		}
	}
	return data, nil
}

// Restore replaces all local data with the snapshot's contents. The
// snapshot is validated for required top-level shape before any write;
// the replacement itself runs in one transaction, so a failure leaves
// local data untouched.
func Restore(ctx context.Context, data []byte) error {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("malformed backup: %w", err)
	}
	if err := validate.Struct(&snapshot); err != nil {
		return fmt.Errorf("malformed backup: %w", err)
	}
	if snapshot.Version > models.SchemaVersion {
		return fmt.Errorf("backup version %d is newer than schema version %d", snapshot.Version, models.SchemaVersion)
	}

	ctx = utils.SkipTenantScope(ctx)
	return config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := restoreTable[models.Business, *models.Business](tx, *snapshot.Businesses); err != nil {
			return err
		}
		if err := restoreTable[models.Category, *models.Category](tx, *snapshot.Categories); err != nil {
			return err
		}
		if err := restoreTable[models.Party, *models.Party](tx, *snapshot.Parties); err != nil {
			return err
		}
		if err := restoreTable[models.Item, *models.Item](tx, *snapshot.Items); err != nil {
			return err
		}
		if err := restoreTable[models.Staff, *models.Staff](tx, *snapshot.Staff); err != nil {
			return err
		}
		if err := restoreTable[models.Transaction, *models.Transaction](tx, *snapshot.Transactions); err != nil {
			return err
		}
		return restoreTable[models.Setting, *models.Setting](tx, *snapshot.Settings)
	})
}

// recordPtr mirrors the model base's setter surface so restored rows keep
// the identifiers the snapshot carried.
type recordPtr[T models.SyncedRecord] interface {
	*T
	SetLocalID(uint)
	SetRemoteID(string)
}

func restoreTable[T models.SyncedRecord, PT recordPtr[T]](tx *gorm.DB, rows []Row[T]) error {
	var model T
	if err := tx.Where("1 = 1").Delete(&model).Error; err != nil {
		return err
	}
	for i := range rows {
		record := rows[i].Data
		PT(&record).SetLocalID(rows[i].LocalId)
		PT(&record).SetRemoteID(rows[i].RemoteId)
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}
