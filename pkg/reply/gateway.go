// Package reply talks to the external automation webhook that generates
// assistant responses. The endpoint's response shape is not contractually
// fixed, so decoding runs an ordered fallback chain with a fixed sentinel
// as the last arm.
package reply

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnonymousUserID is sent when no authenticated user is attached to the
// request.
const AnonymousUserID = "anonymous"

// Fallback is returned when the webhook answered 2xx but no reply text
// could be extracted from the body.
const Fallback = "Message received, but no reply text was returned."

// Gateway defines the contract for the reply collaborator.
type Gateway interface {
	// SendMessage relays a user message and returns the assistant reply
	// text. Errors must be surfaced to the end user by the caller.
	SendMessage(ctx context.Context, req *Request) (string, error)
}

// File is an attachment inlined into the webhook payload.
type File struct {
	Name    string
	Type    string
	Content []byte
}

// Request carries one user message to the webhook.
type Request struct {
	UserID         string
	Message        string
	ConversationID uuid.UUID
	File           *File
}

type HTTPGateway struct {
	WebhookURL string
	Client     *http.Client
}

var _ Gateway = &HTTPGateway{}

func NewHTTPGateway(webhookURL string) *HTTPGateway {
	return &HTTPGateway{
		WebhookURL: webhookURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// --- Wire structs (internal to this package) ---

type webhookRequest struct {
	UserID            string `json:"user_id"`
	Message           string `json:"message"`
	ConversationID    string `json:"conversation_id"`
	FileContentBase64 string `json:"file_content_base64,omitempty"`
	FileType          string `json:"file_type,omitempty"`
	FileName          string `json:"file_name,omitempty"`
}

func (g *HTTPGateway) SendMessage(ctx context.Context, req *Request) (string, error) {
	userID := req.UserID
	if userID == "" {
		userID = AnonymousUserID
	}

	payload := webhookRequest{
		UserID:         userID,
		Message:        req.Message,
		ConversationID: req.ConversationID.String(),
	}
	if req.File != nil {
		payload.FileContentBase64 = encodeFileContent(req.File.Content)
		payload.FileType = req.File.Type
		payload.FileName = req.File.Name
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal webhook payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.WebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook returned %s", resp.Status)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read webhook response: %w", err)
	}

	return Decode(respBody), nil
}

// encodeFileContent base64-encodes raw bytes. Content that already
// arrived as a data URI keeps its base64 payload, prefix stripped.
func encodeFileContent(content []byte) string {
	s := string(content)
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, "base64,"); idx >= 0 {
			return s[idx+len("base64,"):]
		}
	}
	return base64.StdEncoding.EncodeToString(content)
}

// Decode extracts the display text from an untrusted webhook body.
// Ordered attempts: object with "reply", object with "output", bare JSON
// string, then the fixed sentinel.
func Decode(body []byte) string {
	var envelope struct {
		Reply  *string `json:"reply"`
		Output *string `json:"output"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Reply != nil && *envelope.Reply != "" {
			return *envelope.Reply
		}
		if envelope.Output != nil && *envelope.Output != "" {
			return *envelope.Output
		}
	}

	var bare string
	if err := json.Unmarshal(body, &bare); err == nil && bare != "" {
		return bare
	}

	return Fallback
}
