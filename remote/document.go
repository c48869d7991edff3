package remote

import "encoding/json"

// Document is one row of a remote collection: the caller's fields plus the
// server-owned metadata the cloud store attaches to every document.
type Document struct {
	ID           string
	CollectionID string
	DatabaseID   string
	CreatedAt    string
	UpdatedAt    string
	Permissions  []string
	Fields       map[string]interface{}
}

// metadata attribute keys the server injects into every document body.
var serverMetadataKeys = map[string]bool{
	"$id":          true,
	"$collectionId": true,
	"$databaseId":  true,
	"$createdAt":   true,
	"$updatedAt":   true,
	"$permissions": true,
	"$sequence":    true,
}

// decodeDocument splits a raw document body into server metadata and user
// fields.
func decodeDocument(raw json.RawMessage) (Document, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return Document{}, err
	}

	doc := Document{Fields: make(map[string]interface{}, len(body))}
	for key, value := range body {
		if !serverMetadataKeys[key] {
			doc.Fields[key] = value
			continue
		}
		switch key {
		case "$id":
			doc.ID, _ = value.(string)
		case "$collectionId":
			doc.CollectionID, _ = value.(string)
		case "$databaseId":
			doc.DatabaseID, _ = value.(string)
		case "$createdAt":
			doc.CreatedAt, _ = value.(string)
		case "$updatedAt":
			doc.UpdatedAt, _ = value.(string)
		case "$permissions":
			if perms, ok := value.([]interface{}); ok {
				for _, p := range perms {
					if s, ok := p.(string); ok {
						doc.Permissions = append(doc.Permissions, s)
					}
				}
			}
		}
	}
	return doc, nil
}
