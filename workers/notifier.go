package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

// NotificationClient delivers user notifications to the external
// notification service. Delivery is fire-and-forget: a resolved match
// and its XP transfer are the source of truth, so delivery failures
// are logged and never propagated to the caller.
type NotificationClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewNotificationClient() *NotificationClient {
	baseURL := os.Getenv("NOTIFY_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("NOTIFY_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("ENGINE_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("ENGINE_SERVICE_TOKEN environment variable is required for notifications")
	}

	return &NotificationClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type notificationPayload struct {
	UserID  string                 `json:"user_id"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Kind    string                 `json:"kind"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

func (c *NotificationClient) post(ctx context.Context, n notificationPayload) error {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid notification service URL %q: %w", c.BaseURL, err)
	}
	endpoint := base.JoinPath("/api/v1/internal/notifications").String()

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification service unreachable: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notification service returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// Send delivers one notification asynchronously. Failures are logged
// and swallowed.
func (c *NotificationClient) Send(userID, title, message, kind string, payload map[string]interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		n := notificationPayload{
			UserID:  userID,
			Title:   title,
			Message: message,
			Kind:    kind,
			Payload: payload,
		}
		if err := c.post(ctx, n); err != nil {
			log.Printf("⚠️ [NOTIFY] Failed to deliver %q to %s: %v", kind, userID, err)
		}
	}()
}
