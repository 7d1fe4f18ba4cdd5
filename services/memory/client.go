// File: services/memory/client.go
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"swiftmotors/models"
)

// Client talks to the external long-term memory service (a mem0-style REST
// API). It is the only place that knows the wire format.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient constructs a memory service client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type searchRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
}

type searchResult struct {
	Memory string  `json:"memory"`
	Score  float64 `json:"score"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type addRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

// Search returns up to limit memories for the user ranked by relevance,
// descending. An empty result set is normal for new customers.
func (c *Client) Search(ctx context.Context, userID, query string, limit int) ([]models.MemoryEntry, error) {
	body, err := json.Marshal(searchRequest{UserID: userID, Query: query, Limit: limit})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/memories/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("memory search request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("memory search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("memory search decode failed: %w", err)
	}

	entries := make([]models.MemoryEntry, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		entries = append(entries, models.MemoryEntry{Content: r.Memory, Score: r.Score})
	}
	return entries, nil
}

// Add appends a new fact for the user. Safe to retry on transient failure.
func (c *Client) Add(ctx context.Context, userID, content string) error {
	body, err := json.Marshal(addRequest{UserID: userID, Content: content})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/memories", bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("memory add request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("memory add returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Token "+c.apiKey)
	}
}
