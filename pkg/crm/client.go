package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/lendhub/leaddesk/pkg/models"
)

// maxErrorBody caps how much of a failed response is kept in the sync log
const maxErrorBody = 2048

// HTTPClient pushes lead payloads to a CRM REST endpoint
type HTTPClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a CRM client. It is only usable when both endpoint
// and apiKey are set.
func NewHTTPClient(endpoint, apiKey string) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether requests go to a real endpoint
func (c *HTTPClient) Configured() bool {
	return c != nil && c.endpoint != "" && c.apiKey != ""
}

// Push posts the payload and returns the record id assigned by the CRM, or
// "" if the response carried none.
func (c *HTTPClient) Push(ctx context.Context, payload models.CRMSyncPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return "", fmt.Errorf("CRM API returned %d: %s", resp.StatusCode, string(raw))
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to decode CRM response: %w", err)
	}

	for _, key := range []string{"id", "recordId"} {
		if id := stringify(result[key]); id != "" {
			return id, nil
		}
	}
	return "", nil
}

func stringify(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case bool, nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
