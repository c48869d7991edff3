package cloudsync

import (
	"context"

	"bitbucket.org/mmdatafocus/cashbook/remote"
)

// User is the authenticated account a sync pass runs for. Its ID is the
// owner identifier stamped onto every pushed document.
type User struct {
	ID    string
	Name  string
	Email string
}

// Session supplies the current authenticated user. Absence of a session
// makes every sync invocation a no-op.
type Session interface {
	Current(ctx context.Context) (User, bool)
}

// DocumentAPI is the remote collection contract the engine consumes.
// Implemented by remote.Client; tests substitute an in-memory fake.
type DocumentAPI interface {
	CreateDocument(ctx context.Context, collection string, documentID string, payload map[string]interface{}) (remote.Document, error)
	UpdateDocument(ctx context.Context, collection string, documentID string, payload map[string]interface{}) (remote.Document, error)
	ListDocuments(ctx context.Context, collection string, ownerID string) ([]remote.Document, error)
}

// BlobUploader promotes a local binary payload to the remote blob store
// and returns a stable opaque reference string. The engine persists the
// reference so the upload is never repeated.
type BlobUploader interface {
	Upload(ctx context.Context, bucket string, objectID string, data []byte) (string, error)
}

// Notifier surfaces a single user-facing message when a whole pass fails.
type Notifier func(message string)
