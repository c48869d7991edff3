package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/cashbook/config"
	"bitbucket.org/mmdatafocus/cashbook/models"
	"bitbucket.org/mmdatafocus/cashbook/remote"
	"bitbucket.org/mmdatafocus/cashbook/utils"
	"github.com/google/uuid"
)

// recordPtr is the pointer side of a synced model: the engine reads
// identifiers through the record interface and stamps them onto rows it
// builds from pulled documents.
type recordPtr[T models.SyncedRecord] interface {
	*T
	models.SyncedRecord
	SetLocalID(uint)
	SetRemoteID(string)
}

// tableBinding is one typed table handle. The engine iterates a fixed
// ordered list of these instead of any dynamic table lookup.
type tableBinding interface {
	table() string
	push(ctx context.Context, e *Engine, ownerID string, stats *PassStats) error
	pull(ctx context.Context, e *Engine, ownerID string, stats *PassStats) error
}

type binding[T models.SyncedRecord, PT recordPtr[T]] struct {
	tableName    string
	collectionID string

	// beforePush runs after the payload is built and may rewrite both the
	// payload and the local row. Used for receipt promotion.
	beforePush func(ctx context.Context, e *Engine, row PT, payload map[string]interface{})
}

func (b binding[T, PT]) table() string { return b.tableName }

// push sends every local row of the table to the remote collection.
// Rows without a remote id are created (and the server id persisted back
// immediately); rows with one are updated. A failure on one record is
// logged and skipped; only failing to read the table itself aborts.
func (b binding[T, PT]) push(ctx context.Context, e *Engine, ownerID string, stats *PassStats) error {
	rows, err := models.GetAll[T](ctx)
	if err != nil {
		return fmt.Errorf("read local %s: %w", b.tableName, err)
	}

	for i := range rows {
		row := PT(&rows[i])

		payload, err := pushPayload(rows[i], ownerID)
		if err != nil {
			config.LogError(e.logger, "cloudsync", "push", b.tableName, row.GetLocalID(), err)
			stats.Skipped++
			continue
		}
		if b.beforePush != nil {
			b.beforePush(ctx, e, row, payload)
		}

		if remoteID := row.GetRemoteID(); remoteID != "" {
			_, err = e.docs.UpdateDocument(ctx, b.collectionID, remoteID, payload)
		} else {
			var doc remote.Document
			doc, err = e.docs.CreateDocument(ctx, b.collectionID, uuid.NewString(), payload)
			if err == nil {
				// Persist the server id before anything else so a retry
				// routes as an update, never a second create.
				err = models.UpdateByLocalID[T](ctx, row.GetLocalID(), map[string]interface{}{
					"remote_id": doc.ID,
				})
			}
		}
		if err != nil {
			config.LogError(e.logger, "cloudsync", "push", b.tableName, row.GetLocalID(), err)
			stats.Skipped++
			continue
		}
		stats.Pushed++
	}
	return nil
}

// pull lists the owner's documents and reconciles them into the local
// table: insert when no row carries the document's id, wholesale
// overwrite when one does. Pulled data wins unconditionally.
func (b binding[T, PT]) pull(ctx context.Context, e *Engine, ownerID string, stats *PassStats) error {
	docs, err := e.docs.ListDocuments(ctx, b.collectionID, ownerID)
	if err != nil {
		return fmt.Errorf("list remote %s: %w", b.collectionID, err)
	}

	for _, doc := range docs {
		existing, err := models.FindOneByRemoteID[T](ctx, doc.ID)
		if err != nil && !errors.Is(err, utils.ErrorRecordNotFound) {
			return fmt.Errorf("match %s document %s: %w", b.tableName, doc.ID, err)
		}

		incoming, derr := localPayload[T](doc.Fields)
		if derr != nil {
			return fmt.Errorf("decode %s document %s: %w", b.tableName, doc.ID, derr)
		}
		row := PT(&incoming)
		row.SetRemoteID(doc.ID)

		if existing == nil {
			if _, ierr := models.Insert(ctx, &incoming); ierr != nil {
				return fmt.Errorf("insert pulled %s document %s: %w", b.tableName, doc.ID, ierr)
			}
		} else {
			row.SetLocalID((*existing).GetLocalID())
			if oerr := models.Overwrite(ctx, &incoming); oerr != nil {
				return fmt.Errorf("overwrite %s row %d: %w", b.tableName, (*existing).GetLocalID(), oerr)
			}
		}
		stats.Pulled++
	}
	return nil
}

// pushPayload clones the row's fields into an outbound payload. The local
// and remote identifiers are excluded by the models' json tags; the owner
// id is stamped on; time fields serialize as RFC 3339 timestamps.
func pushPayload[T any](row T, ownerID string) (map[string]interface{}, error) {
	encoded, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, err
	}
	payload["userId"] = ownerID
	return payload, nil
}

// localPayload builds a local-shaped row from a document's user fields.
// Server metadata never reaches here (the remote client already strips
// it); the owner id is dropped since ownership is implicit locally.
func localPayload[T any](fields map[string]interface{}) (T, error) {
	var row T
	clean := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if key == "userId" {
			continue
		}
		clean[key] = value
	}
	encoded, err := json.Marshal(clean)
	if err != nil {
		return row, err
	}
	if err := json.Unmarshal(encoded, &row); err != nil {
		return row, err
	}
	return row, nil
}

// defaultTables is the fixed reconciliation order. Businesses go first by
// convention only: the engine does not enforce referential ordering
// across tables, and a reference may trail its target by one pass.
func defaultTables() []tableBinding {
	return []tableBinding{
		binding[models.Business, *models.Business]{tableName: "businesses", collectionID: "businesses"},
		binding[models.Category, *models.Category]{tableName: "categories", collectionID: "categories"},
		binding[models.Party, *models.Party]{tableName: "parties", collectionID: "parties"},
		binding[models.Item, *models.Item]{tableName: "items", collectionID: "items"},
		binding[models.Staff, *models.Staff]{tableName: "staff", collectionID: "staff"},
		binding[models.Transaction, *models.Transaction]{
			tableName:    "transactions",
			collectionID: "transactions",
			beforePush:   promoteReceipt,
		},
		binding[models.Setting, *models.Setting]{tableName: "settings", collectionID: "settings"},
	}
}

// promoteReceipt uploads a transaction's raw receipt bytes to the blob
// store before the record itself is pushed, rewriting the local row so a
// later pass never re-uploads. Upload failure drops the attachment from
// this push only; the bytes stay local for the next pass.
func promoteReceipt(ctx context.Context, e *Engine, row *models.Transaction, payload map[string]interface{}) {
	if !row.HasPendingReceipt() {
		return
	}

	data := utils.ShrinkReceiptImage(row.ReceiptBlob)
	ref, err := e.blobs.Upload(ctx, e.bucket, uuid.NewString(), data)
	if err != nil {
		config.LogError(e.logger, "cloudsync", "promoteReceipt", "upload failed", row.LocalID, err)
		delete(payload, "receiptImage")
		return
	}

	payload["receiptImage"] = ref
	err = models.UpdateByLocalID[models.Transaction](ctx, row.LocalID, map[string]interface{}{
		"receipt_image": ref,
		"receipt_blob":  nil,
	})
	if err != nil {
		config.LogError(e.logger, "cloudsync", "promoteReceipt", "persist reference failed", row.LocalID, err)
	}
}
