package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client is a thin typed wrapper over the cloud document store's REST API.
// Collections live in one named database; every document carries a userId
// attribute the list operation filters on. Timeouts are the HTTP client's;
// the sync engine adds none of its own.
type Client struct {
	baseURL    string
	databaseID string
	projectID  string
	apiKey     string
	http       *http.Client
}

// NewClientFromEnv builds the client from CLOUD_API_ENDPOINT,
// CLOUD_PROJECT_ID, CLOUD_API_KEY and CLOUD_DATABASE_ID.
func NewClientFromEnv() (*Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("CLOUD_API_ENDPOINT"))
	if baseURL == "" {
		return nil, errors.New("CLOUD_API_ENDPOINT is required")
	}
	projectID := strings.TrimSpace(os.Getenv("CLOUD_PROJECT_ID"))
	if projectID == "" {
		return nil, errors.New("CLOUD_PROJECT_ID is required")
	}
	apiKey := strings.TrimSpace(os.Getenv("CLOUD_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("CLOUD_API_KEY is required")
	}
	databaseID := strings.TrimSpace(os.Getenv("CLOUD_DATABASE_ID"))
	if databaseID == "" {
		databaseID = "cashbook_db"
	}
	return NewClient(baseURL, projectID, apiKey, databaseID), nil
}

func NewClient(baseURL, projectID, apiKey, databaseID string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		databaseID: databaseID,
		projectID:  projectID,
		apiKey:     apiKey,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateDocument creates a document under a caller-generated unique id and
// returns the server's view of it, including the server-assigned $id.
func (c *Client) CreateDocument(ctx context.Context, collection string, documentID string, payload map[string]interface{}) (Document, error) {
	body := map[string]interface{}{
		"documentId": documentID,
		"data":       payload,
	}
	raw, err := c.do(ctx, http.MethodPost, c.documentsPath(collection), nil, body)
	if err != nil {
		return Document{}, err
	}
	return decodeDocument(raw)
}

// UpdateDocument overwrites the user attributes of an existing document.
func (c *Client) UpdateDocument(ctx context.Context, collection string, documentID string, payload map[string]interface{}) (Document, error) {
	body := map[string]interface{}{
		"data": payload,
	}
	raw, err := c.do(ctx, http.MethodPatch, c.documentsPath(collection)+"/"+url.PathEscape(documentID), nil, body)
	if err != nil {
		return Document{}, err
	}
	return decodeDocument(raw)
}

type listResponse struct {
	Total     int               `json:"total"`
	Documents []json.RawMessage `json:"documents"`
}

// ListDocuments returns every document in the collection owned by ownerID.
func (c *Client) ListDocuments(ctx context.Context, collection string, ownerID string) ([]Document, error) {
	params := url.Values{}
	params.Add("queries[]", fmt.Sprintf(`equal("userId", [%q])`, ownerID))

	raw, err := c.do(ctx, http.MethodGet, c.documentsPath(collection), params, nil)
	if err != nil {
		return nil, err
	}

	var parsed listResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(parsed.Documents))
	for _, rawDoc := range parsed.Documents {
		doc, err := decodeDocument(rawDoc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Client) documentsPath(collection string) string {
	return fmt.Sprintf("/v1/databases/%s/collections/%s/documents",
		url.PathEscape(c.databaseID), url.PathEscape(collection))
}

func (c *Client) do(ctx context.Context, method string, path string, params url.Values, body interface{}) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Project-Id", c.projectID)
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cloud api error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}
