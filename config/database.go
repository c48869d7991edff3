package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var (
	db *gorm.DB
)

func GetDB() *gorm.DB {
	return db
}

// SetDB swaps the process-wide database handle. Tests use this to point
// the store layer at an in-memory database.
func SetDB(handle *gorm.DB) {
	db = handle
}

func init() {
	// Load env from .env
	godotenv.Load()

	// Remote datetime/double attributes expect plain JSON values, so
	// decimals go over the wire unquoted.
	decimal.MarshalJSONWithoutQuotes = true
}

// ConnectDatabase opens (or creates) the embedded per-device database and
// sets the global DB. Call this from main() before anything touches the
// local store.
func ConnectDatabase() error {
	path := os.Getenv("CASHBOOK_DB_PATH")
	if path == "" {
		path = filepath.Join(dataDir(), "cashbook.db")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var err error
	db, err = gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL"), initConfig())
	if err != nil {
		return err
	}

	// A single writer at a time keeps sqlite's lock contention between the
	// UI path and the sync engine bounded to busy-wait retries.
	if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if pluginErr := db.Use(NewTenantGuardPlugin()); pluginErr != nil {
		log.Printf("db opened but failed to install tenant guard plugin: %v", pluginErr)
	}
	return nil
}

// OpenMemoryDatabase opens a private in-memory database with the same
// configuration as the on-disk one. Used by tests; every call gets a
// fresh database.
func OpenMemoryDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	handle, err := gorm.Open(sqlite.Open(dsn), initConfig())
	if err != nil {
		return nil, err
	}
	if sqlDB, derr := handle.DB(); derr == nil && sqlDB != nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := handle.Use(NewTenantGuardPlugin()); err != nil {
		return nil, err
	}
	return handle, nil
}

func dataDir() string {
	if dir := os.Getenv("CASHBOOK_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".cashbook")
}

// InitConfig Initialize Config
func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         initLog(),
		NamingStrategy: initNamingStrategy(),
	}
}

// InitLog Connection Log Configuration
func initLog() logger.Interface {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:      false,
			LogLevel:      logger.Error,
			SlowThreshold: time.Second,
		},
	)
	return newLogger
}

// InitNamingStrategy Init NamingStrategy
func initNamingStrategy() *schema.NamingStrategy {
	return &schema.NamingStrategy{
		SingularTable: false,
		TablePrefix:   "",
	}
}
