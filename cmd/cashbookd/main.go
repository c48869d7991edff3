package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/cashbook/cloudsync"
	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/models"
	"bitbucket.org/mmdatafocus/cashbook/remote"
	"bitbucket.org/mmdatafocus/cashbook/tenant"
	"bitbucket.org/mmdatafocus/cashbook/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultProbeInterval = 15 * time.Second

func main() {
	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if err := config.ConnectDatabase(); err != nil {
		logger.WithField("module", "cashbookd").Fatal(err)
	}
	models.MigrateTable()

	client, err := remote.NewClientFromEnv()
	if err != nil {
		logger.WithField("module", "cashbookd").Fatal(err)
	}

	session := &cloudsync.StaticSession{}
	if user, ok := sessionUserFromEnv(); ok {
		session.SetUser(user)
	}

	engine := cloudsync.NewEngine(session, client, utils.ReceiptStorage{})
	engine.SetNotifier(func(message string) {
		logger.WithField("module", "cashbookd").Warn(message)
	})

	tenants := tenant.New(tenantStatePath())
	if _, err := tenants.Current(sigCtx); err != nil && err != utils.ErrorRecordNotFound {
		config.LogError(logger, "cashbookd", "main", "resolve current business", nil, err)
	}

	ctx := utils.SetCorrelationIdInContext(sigCtx, uuid.NewString())

	online := make(chan bool, 1)
	go probeConnectivity(ctx, online)
	go engine.Watch(ctx, online)

	// Initial sync on session start. Later passes ride the network
	// transitions; there is no periodic sync.
	engine.Sync(ctx)

	<-sigCtx.Done()
	logger.WithFields(logrus.Fields{"module": "cashbookd"}).Info("shutting down")
}

func sessionUserFromEnv() (cloudsync.User, bool) {
	id := strings.TrimSpace(os.Getenv("CLOUD_USER_ID"))
	if id == "" {
		return cloudsync.User{}, false
	}
	return cloudsync.User{
		ID:    id,
		Name:  strings.TrimSpace(os.Getenv("CLOUD_USER_NAME")),
		Email: strings.TrimSpace(os.Getenv("CLOUD_USER_EMAIL")),
	}, true
}

func tenantStatePath() string {
	if path := strings.TrimSpace(os.Getenv("CASHBOOK_STATE_PATH")); path != "" {
		return path
	}
	dir := strings.TrimSpace(os.Getenv("CASHBOOK_DATA_DIR"))
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			dir = "."
		} else {
			dir = filepath.Join(home, ".cashbook")
		}
	}
	return filepath.Join(dir, "state.json")
}

// probeConnectivity watches reachability of the cloud endpoint and feeds
// the engine's trigger channel. The probe interval is connectivity
// detection only; sync itself is event driven.
func probeConnectivity(ctx context.Context, online chan<- bool) {
	endpoint := strings.TrimSpace(os.Getenv("CLOUD_API_ENDPOINT"))
	if endpoint == "" {
		return
	}

	probe := &http.Client{Timeout: 5 * time.Second}
	ticker := time.NewTicker(defaultProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(online)
			return
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
			if err != nil {
				continue
			}
			resp, err := probe.Do(req)
			if resp != nil {
				resp.Body.Close()
			}
			select {
			case online <- err == nil:
			case <-ctx.Done():
				close(online)
				return
			}
		}
	}
}
