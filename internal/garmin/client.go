package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client ходит в API провайдера носимых устройств за дневными данными.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a provider API client. Returns nil when baseURL is
// empty: the sync endpoint then works in push-only mode.
func NewClient(baseURL, token string, timeoutSeconds int) *Client {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// FetchDaily возвращает дневной payload за дату (YYYY-MM-DD).
func (c *Client) FetchDaily(ctx context.Context, date string) (*VendorDaily, error) {
	endpoint := fmt.Sprintf("%s/daily?date=%s", c.baseURL, url.QueryEscape(date))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoVendorData
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider request failed with status %d", resp.StatusCode)
	}

	var daily VendorDaily
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, fmt.Errorf("failed to parse provider payload: %w", err)
	}
	if daily.Date == "" {
		daily.Date = date
	}

	return &daily, nil
}
