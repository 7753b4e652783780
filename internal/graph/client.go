package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// sessionHeader scopes every workbook operation to an edit session so that
// reads and writes within one batch see a consistent, serialized view.
const sessionHeader = "workbook-session-id"

// Config carries the credentials and workbook identifiers for a Client.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	DriveID      string
	ItemID       string
	Worksheet    string

	// BaseURL and HTTPClient override the Graph endpoint and transport.
	// Both are meant for tests; leave them empty in production.
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the Graph drive and workbook endpoints. The underlying
// HTTP client carries an OAuth2 client-credentials token source, so tokens
// are acquired and refreshed transparently.
type Client struct {
	httpClient *http.Client
	baseURL    string
	driveID    string
	itemID     string
	worksheet  string
}

// NewClient builds a Graph client authenticated with the client-credentials
// flow against the tenant's token endpoint.
func NewClient(ctx context.Context, cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
			Scopes:       []string{"https://graph.microsoft.com/.default"},
		}
		httpClient = cc.Client(ctx)
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	worksheet := cfg.Worksheet
	if worksheet == "" {
		worksheet = "Cases"
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		driveID:    cfg.DriveID,
		itemID:     cfg.ItemID,
		worksheet:  worksheet,
	}
}

// Worksheet returns the name of the worksheet all range addresses refer to.
func (c *Client) Worksheet() string {
	return c.worksheet
}

func (c *Client) itemPath() string {
	return fmt.Sprintf("/drives/%s/items/%s", c.driveID, c.itemID)
}

// do issues one JSON request against the Graph API. A non-empty sessionID is
// attached as the workbook session header. When out is non-nil the response
// body is decoded into it.
func (c *Client) do(ctx context.Context, method, path, sessionID string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
