package faq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/faqchat/internal/model"
)

const (
	askPath    = "/api/ask"
	searchPath = "/api/search"
)

// StatusError is returned when the backend answers with a non-2xx status.
// Body holds the response text, if any, for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.Code)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Body)
}

// Client is a thin HTTP client for the FAQ backend's ask and search
// endpoints. It never retries; callers decide how failures surface.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the backend rooted at baseURL. The token,
// when non-empty, is sent as a Bearer credential. A zero timeout leaves
// requests bounded only by their context.
func NewClient(
	baseURL string,
	token string,
	timeout time.Duration,
	logger *zap.Logger,
) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ask posts the question to /api/ask and returns the extracted answer
// text. Transport errors, non-2xx statuses and undecodable bodies are
// returned as errors.
func (c *Client) Ask(
	ctx context.Context,
	requestID string,
	question string,
) (string, error) {
	body, err := c.do(ctx, http.MethodPost, askPath, "", requestID,
		askRequest{Question: question})
	if err != nil {
		return "", err
	}
	return ExtractAnswer(body)
}

// Search queries /api/search for questions related to query and returns
// at most limit normalized suggestions. A well-formed body of an
// unexpected shape yields an empty slice and no error.
func (c *Client) Search(
	ctx context.Context,
	requestID string,
	query string,
	limit int,
) ([]model.Suggestion, error) {
	rawQuery := "q=" + encodeQueryComponent(query)
	body, err := c.do(ctx, http.MethodGet, searchPath, rawQuery, requestID, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeSuggestions(body, limit)
}

type askRequest struct {
	Question string `json:"question"`
}

// do builds and executes one request and returns the raw response body
// of a 2xx response.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	rawQuery string,
	requestID string,
	body interface{},
) ([]byte, error) {
	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug("backend request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(respBody)),
		}
	}

	return respBody, nil
}

// encodeQueryComponent escapes s the way browsers escape a URI component:
// spaces become %20 rather than '+'.
func encodeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
