package cloudsync

import (
	"context"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/utils"
	"github.com/sirupsen/logrus"
)

const syncFailedMessage = "Sync failed. Please check your connection."

// PassStats summarize one reconciliation pass.
type PassStats struct {
	Pushed  int
	Pulled  int
	Skipped int
}

// Engine reconciles every synced table between the local store and the
// cloud collections: push local changes first, then pull the owner's full
// remote listing, table by table in a fixed order. At most one pass runs
// per process; a second invocation while one is in flight is a no-op.
type Engine struct {
	session Session
	docs    DocumentAPI
	blobs   BlobUploader
	bucket  string
	notify  Notifier
	logger  *logrus.Logger
	state   syncState
	tables  []tableBinding
}

func NewEngine(session Session, docs DocumentAPI, blobs BlobUploader) *Engine {
	return &Engine{
		session: session,
		docs:    docs,
		blobs:   blobs,
		bucket:  receiptBucket(),
		logger:  config.GetLogger(),
		tables:  defaultTables(),
	}
}

// SetNotifier installs the hook that surfaces a failed pass to the user.
// Failures are reported once per pass, never per record.
func (e *Engine) SetNotifier(n Notifier) { e.notify = n }

// Sync runs one full reconciliation pass. Without an authenticated
// session, or with another pass already in flight, it returns
// immediately. Record-level errors are logged and skipped inside the
// pass; a systemic error aborts the remaining tables, is logged, and is
// surfaced as a single notification.
func (e *Engine) Sync(ctx context.Context) {
	user, ok := e.session.Current(ctx)
	if !ok {
		return
	}
	if !e.state.begin() {
		return
	}
	defer e.state.end()

	// Push reads whole tables; each row carries its own business
	// reference, so tenant scoping is bypassed for the entire pass.
	ctx = utils.SkipTenantScope(utils.SetUserIdInContext(ctx, user.ID))

	var stats PassStats
	if err := e.runPass(ctx, user.ID, &stats); err != nil {
		config.LogError(e.logger, "cloudsync", "Sync", "pass aborted", stats, err)
		if e.notify != nil {
			e.notify(syncFailedMessage)
		}
		return
	}

	e.state.markSynced(time.Now())
	fields := logrus.Fields{
		"module":  "cloudsync",
		"pushed":  stats.Pushed,
		"pulled":  stats.Pulled,
		"skipped": stats.Skipped,
	}
	if correlationId, ok := utils.GetCorrelationIdFromContext(ctx); ok {
		fields["correlationId"] = correlationId
	}
	e.logger.WithFields(fields).Info("sync finished")
}

func (e *Engine) runPass(ctx context.Context, ownerID string, stats *PassStats) error {
	for _, t := range e.tables {
		if err := t.push(ctx, e, ownerID, stats); err != nil {
			return err
		}
		if err := t.pull(ctx, e, ownerID, stats); err != nil {
			return err
		}
	}
	return nil
}

// Status reports whether a pass is in flight and when the last successful
// pass finished (zero time if none yet).
func (e *Engine) Status() (syncing bool, lastSynced time.Time) {
	return e.state.snapshot()
}

// Reset clears the last-synced timestamp. Called on logout.
func (e *Engine) Reset() {
	e.state.reset()
}

// Watch fires a sync pass on every offline-to-online transition. It
// blocks until ctx is done or the channel closes; callers run it in its
// own goroutine. There is no periodic polling.
func (e *Engine) Watch(ctx context.Context, online <-chan bool) {
	wasOnline := true
	for {
		select {
		case <-ctx.Done():
			return
		case isOnline, ok := <-online:
			if !ok {
				return
			}
			if isOnline && !wasOnline {
				e.logger.WithField("module", "cloudsync").Info("network restored, triggering sync")
				e.Sync(ctx)
			}
			wasOnline = isOnline
		}
	}
}

func receiptBucket() string {
	if bucket := strings.TrimSpace(os.Getenv("CLOUD_RECEIPT_BUCKET")); bucket != "" {
		return bucket
	}
	return "receipts"
}
