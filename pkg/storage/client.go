// Package storage uploads chat attachments to the managed object-storage
// bucket and resolves their durable public URLs.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader is the contract the chat pipeline depends on. An upload
// failure is a silent-degrade condition for callers: log it and carry on
// without a durable URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type Client struct {
	BaseURL    string // storage API root, e.g. https://xyz.supabase.co/storage/v1
	Bucket     string
	ServiceKey string
	HTTPClient *http.Client
}

var _ Uploader = &Client{}

func NewClient(baseURL, bucket, serviceKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Bucket:     bucket,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BuildKey namespaces an object by owner and timestamps it so repeated
// uploads of the same filename never collide.
func BuildKey(userID uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("%s/%d_%s", userID, time.Now().Unix(), name)
}

// Upload stores the object and returns its public URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	uploadURL := fmt.Sprintf("%s/object/%s/%s", c.BaseURL, c.Bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("storage rejected upload (%s): %s", resp.Status, string(body))
	}

	return c.PublicURL(key), nil
}

// PublicURL resolves the durable URL of an already-stored object.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.BaseURL, c.Bucket, key)
}
