package translation

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

// DefaultGoogleEndpoint is the public gtx translation endpoint.
const DefaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

const defaultGoogleTimeout = 30 * time.Second

// GoogleClient calls the Google Translate gtx endpoint with automatic source
// detection.
type GoogleClient struct {
	endpoint   string
	httpClient *http.Client
}

// GoogleOption customizes a GoogleClient.
type GoogleOption func(*GoogleClient)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) GoogleOption {
	return func(c *GoogleClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoint overrides the translation endpoint.
func WithEndpoint(endpoint string) GoogleOption {
	return func(c *GoogleClient) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) GoogleOption {
	return func(c *GoogleClient) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewGoogleClient constructs a gtx client.
func NewGoogleClient(opts ...GoogleOption) *GoogleClient {
	c := &GoogleClient{
		endpoint:   DefaultGoogleEndpoint,
		httpClient: &http.Client{Timeout: defaultGoogleTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate implements Client.
func (c *GoogleClient) Translate(ctx context.Context, text, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("google translate: target language required")
	}
	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("google translate: parse endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("client", "gtx")
	query.Set("sl", "auto")
	query.Set("tl", target)
	query.Set("dt", "t")
	query.Set("q", text)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("google translate: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate: request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("google translate: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google translate: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return parseGTXResponse(body)
}

// parseGTXResponse joins the translated chunks of a gtx payload, which has
// the shape [[["translated","source",...],...],null,"detected",...].
func parseGTXResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("google translate: decode response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("google translate: empty response")
	}
	var chunks [][]any
	if err := json.Unmarshal(payload[0], &chunks); err != nil {
		return "", fmt.Errorf("google translate: decode sentences: %w", err)
	}
	var b strings.Builder
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		if piece, ok := chunk[0].(string); ok {
			b.WriteString(piece)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("google translate: no translated text in response")
	}
	return b.String(), nil
}
