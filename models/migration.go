package models

import (
	"log"
	"time"

	"bitbucket.org/mmdatafocus/cashbook/config"
)

// SchemaVersion is the single increasing version counter the local store
// understands. Bump it whenever the table set changes shape.
const SchemaVersion = 5

type SchemaInfo struct {
	ID        uint      `gorm:"primaryKey"`
	Version   int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Business{}, &Category{}, &Party{}, &Staff{}, &Item{},
		&Transaction{}, &Setting{},
		&SchemaInfo{},
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := stampSchemaVersion(); err != nil {
		log.Fatal(err)
	}
}

func stampSchemaVersion() error {
	db := config.GetDB()

	var info SchemaInfo
	err := db.First(&info).Error
	if isNotFound(err) {
		return db.Create(&SchemaInfo{Version: SchemaVersion}).Error
	}
	if err != nil {
		return err
	}
	if info.Version < SchemaVersion {
		return db.Model(&info).Update("version", SchemaVersion).Error
	}
	return nil
}
