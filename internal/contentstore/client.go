package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/media-library-service/internal/config"
)

// Perspective selects which document visibility a client queries with.
type Perspective string

const (
	// PerspectivePublished hides drafts; counts and lookups see committed
	// documents only.
	PerspectivePublished Perspective = "published"
	// PerspectiveDrafts includes draft documents, used by the studio
	// surface for a more complete admin view.
	PerspectiveDrafts Perspective = "previewDrafts"
)

// Client talks to the hosted content store's query and mutate HTTP API.
// Every call is bounded by the configured request timeout.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	dataset     string
	apiVersion  string
	token       string
	perspective Perspective
	logger      *zap.Logger
}

// NewClient builds a store client. The token decides the client's
// privileges: read tokens for queries, a write token for mutations.
func NewClient(cfg config.ContentConfig, token string, perspective Perspective, logger *zap.Logger) *Client {
	base := cfg.Endpoint
	if base == "" {
		host := "api.sanity.io"
		if cfg.UseCDN {
			host = "apicdn.sanity.io"
		}
		base = fmt.Sprintf("https://%s.%s", cfg.ProjectID, host)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		baseURL:     strings.TrimRight(base, "/"),
		dataset:     cfg.Dataset,
		apiVersion:  cfg.APIVersion,
		token:       token,
		perspective: perspective,
		logger:      logger,
	}
}

// Fetch runs a query with parameters and decodes the result envelope into out.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	values := url.Values{}
	values.Set("query", query)
	values.Set("perspective", string(c.perspective))
	for name, val := range params {
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("encode query param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s", c.baseURL, c.apiVersion, c.dataset, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode query response: %w", err)
	}
	if out == nil || len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode query result: %w", err)
	}
	return nil
}

// Count runs a counting query and returns the matching document count.
func (c *Client) Count(ctx context.Context, query string, params map[string]any) (int, error) {
	var count int
	if err := c.Fetch(ctx, query, params, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new document. The store assigns the identifier; the
// created document is returned for decoding by the caller.
func (c *Client) Create(ctx context.Context, doc map[string]any) (json.RawMessage, error) {
	payload := map[string]any{
		"mutations":     []map[string]any{{"create": doc}},
		"transactionId": uuid.NewString(),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode mutation: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v%s/data/mutate/%s?returnDocuments=true", c.baseURL, c.apiVersion, c.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Results []struct {
			ID       string          `json:"id"`
			Document json.RawMessage `json:"document"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode mutate response: %w", err)
	}
	if len(envelope.Results) == 0 {
		return nil, errors.New("mutate response contained no results")
	}
	return envelope.Results[0].Document, nil
}

// Ping verifies store reachability with a trivial query.
func (c *Client) Ping(ctx context.Context) error {
	var one int
	return c.Fetch(ctx, "1", nil, &one)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content store request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read content store response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("content store error response",
			zap.Int("status", resp.StatusCode),
			zap.String("path", req.URL.Path),
		)
		return nil, fmt.Errorf("content store returned status %d: %s", resp.StatusCode, storeErrorMessage(body))
	}
	return body, nil
}

func storeErrorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Description != "" {
		return envelope.Error.Description
	}
	return "unknown error"
}
