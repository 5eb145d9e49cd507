// ABOUTME: HTTP client for the remote theme-unlock API
// ABOUTME: Single-attempt GET with a bounded timeout and key-redacting errors

package unlock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single unlock request when none is configured.
const DefaultTimeout = 10 * time.Second

// ErrEmptyResult indicates the service answered OK but carried no unlock value.
var ErrEmptyResult = errors.New("unlock service returned an empty result")

// Result is the artifact returned by the unlock service.
type Result struct {
	Primary   string // unlock string for the requested action
	Secondary string // gold key, only ever set for the aggregate action
}

// response is the wire shape of the service's JSON body.
type response struct {
	Result  string `json:"result"`
	GoldKey string `json:"goldKey"`
}

// Client issues requests against a configured unlock endpoint. Each call
// is exactly one attempt: no retry, no backoff. Errors returned by Client
// never contain the API key.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// New creates a Client for the given endpoint and API key.
// A non-positive timeout falls back to DefaultTimeout.
func New(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Request performs one unlock call for (action, code). content rides along
// only for the encrypt/decrypt actions and is omitted when empty.
func (c *Client) Request(ctx context.Context, action, code, content string) (Result, error) {
	q := url.Values{}
	q.Set("identify", c.apiKey)
	q.Set("code", code)
	q.Set("action", action)
	if content != "" {
		q.Set("content", content)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// The transport error renders the full request URL, and the
		// query string carries the API key. Report the endpoint only.
		return Result{}, fmt.Errorf("requesting %s: %w", c.endpoint, redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, errorFromResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("parsing response: %w", err)
	}
	if parsed.Result == "" {
		return Result{}, ErrEmptyResult
	}

	return Result{Primary: parsed.Result, Secondary: parsed.GoldKey}, nil
}

// redact strips the request URL from a transport error, keeping the cause.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

// errorFromResponse builds a descriptive error from a non-200 response.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("unlock service returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("unlock service returned status %d: %s", resp.StatusCode, msg)
}
