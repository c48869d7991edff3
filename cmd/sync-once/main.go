package main

import (
	"context"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/cashbook/cloudsync"
	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/models"
	"bitbucket.org/mmdatafocus/cashbook/remote"
	"bitbucket.org/mmdatafocus/cashbook/utils"
)

// Runs a single reconciliation pass and exits non-zero if it failed.
// Useful for cron-style environments and for poking a stuck dataset.
func main() {
	logger := config.GetLogger()

	if err := config.ConnectDatabase(); err != nil {
		logger.WithField("module", "sync-once").Fatal(err)
	}
	models.MigrateTable()

	client, err := remote.NewClientFromEnv()
	if err != nil {
		logger.WithField("module", "sync-once").Fatal(err)
	}

	userID := strings.TrimSpace(os.Getenv("CLOUD_USER_ID"))
	if userID == "" {
		logger.WithField("module", "sync-once").Fatal("CLOUD_USER_ID is required")
	}
	session := &cloudsync.StaticSession{}
	session.SetUser(cloudsync.User{
		ID:    userID,
		Name:  strings.TrimSpace(os.Getenv("CLOUD_USER_NAME")),
		Email: strings.TrimSpace(os.Getenv("CLOUD_USER_EMAIL")),
	})

	engine := cloudsync.NewEngine(session, client, utils.ReceiptStorage{})

	failed := false
	engine.SetNotifier(func(message string) {
		failed = true
		logger.WithField("module", "sync-once").Error(message)
	})

	engine.Sync(context.Background())
	if failed {
		os.Exit(1)
	}
}
