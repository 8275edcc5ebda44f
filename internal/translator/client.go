package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MimeLyc/srtrans/pkg/log"
)

// Client talks to the translateHtml endpoint.
// One Translate call is one POST; the client never retries, that is up to the caller.
// Safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Translate sends texts in a single request and returns the translations in
// input order. Items the service left out or returned in an unexpected shape
// come back as "", so callers can fall back to the source text.
func (c *Client) Translate(
	ctx context.Context,
	texts []string,
	apiKey string,
	sourceLang string,
	targetLang string,
) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	payload := []any{[]any{texts, sourceLang, targetLang}, "te"}
	body, err := c.makeRequest(ctx, apiKey, payload)
	if err != nil {
		return nil, err
	}

	translated, err := parseResponse(body)
	if err != nil {
		return nil, err
	}
	if len(translated) != len(texts) {
		log.Warn("Translation count mismatch: sent %d texts, got %d", len(texts), len(translated))
	}
	return translated, nil
}

// makeRequest posts payload and returns the raw 2xx response body
func (c *Client) makeRequest(ctx context.Context, apiKey string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.config.GetHeaders(apiKey) {
		req.Header.Set(key, value)
	}

	log.Debug("POST %s (%d bytes)", c.config.APIURL, len(jsonData))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(responseBody)}
	}

	return responseBody, nil
}

// parseResponse extracts resp[0][0][i][0] for every i.
func parseResponse(body []byte) ([]string, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ResponseFormatError{Reason: fmt.Sprintf("invalid JSON: %v", err), Body: string(body)}
	}

	outer, ok := data.([]any)
	if !ok || len(outer) == 0 {
		return nil, &ResponseFormatError{Reason: "top level is not a non-empty array", Body: string(body)}
	}
	first, ok := outer[0].([]any)
	if !ok || len(first) == 0 {
		return nil, &ResponseFormatError{Reason: "element [0] is not a non-empty array", Body: string(body)}
	}
	items, ok := first[0].([]any)
	if !ok {
		return nil, &ResponseFormatError{Reason: "element [0][0] is not an array", Body: string(body)}
	}

	ret := make([]string, len(items))
	for i, item := range items {
		fields, ok := item.([]any)
		if !ok || len(fields) == 0 {
			continue
		}
		if text, ok := fields[0].(string); ok {
			ret[i] = text
		}
	}
	return ret, nil
}
