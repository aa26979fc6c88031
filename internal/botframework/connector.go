package botframework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nadzzz/meetgreet/internal/meeting"
)

const (
	defaultTokenURL = "https://login.microsoftonline.com/botframework.com/oauth2/v2.0/token"
	connectorScope  = "https://api.botframework.com/.default"
)

// Connector sends proactive message activities into a conversation via
// the Bot Framework connector REST API. With no app id configured it
// sends unauthenticated requests, which the local emulator accepts.
type Connector struct {
	appID       string
	appPassword string
	tokenURL    string
	client      *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewConnector creates a connector client for the given bot identity.
func NewConnector(appID, appPassword string) *Connector {
	return &Connector{
		appID:       appID,
		appPassword: appPassword,
		tokenURL:    defaultTokenURL,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Notify posts a text message activity into the referenced conversation.
func (c *Connector) Notify(ctx context.Context, ref meeting.ConversationReference, text string) error {
	if ref.ServiceURL == "" || ref.ConversationID == "" {
		return fmt.Errorf("conversation reference is incomplete")
	}

	payload := map[string]any{
		"type": "message",
		"text": text,
		"from": map[string]string{
			"id":   ref.Bot.ID,
			"name": ref.Bot.Name,
		},
		"conversation": map[string]string{
			"id": ref.ConversationID,
		},
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling activity: %w", err)
	}

	endpoint := strings.TrimRight(ref.ServiceURL, "/") +
		"/v3/conversations/" + url.PathEscape(ref.ConversationID) + "/activities"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating activity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.appID != "" {
		token, err := c.accessToken(ctx)
		if err != nil {
			return fmt.Errorf("acquiring connector token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sending activity: status %d: %s", resp.StatusCode, respBody)
	}

	slog.Debug("proactive message sent",
		"conversation_id", ref.ConversationID, "status", resp.StatusCode)
	return nil
}

// accessToken returns a cached client-credentials token for the
// connector API, refreshing when within a minute of expiry.
func (c *Connector) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.appID)
	form.Set("client_secret", c.appPassword)
	form.Set("scope", connectorScope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("token request failed (status %d): %s", resp.StatusCode, respBody)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response without access_token")
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.token, nil
}
