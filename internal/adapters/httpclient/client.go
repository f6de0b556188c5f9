// Package httpclient builds the outbound HTTP clients shared by the
// provider adapters and provides small JSON request helpers around them.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"
)

// NewQuoteClient returns a client with retries disabled. Quote and route
// calls are never retried: a silently changed price on retry would be
// misleading, so transport failures surface to the resolver instead.
func NewQuoteClient(timeout time.Duration) *http.Client {
	return newClient(timeout, 0)
}

// NewStatusClient returns a client that retries transient failures. Status
// polling is idempotent, so retries are safe there.
func NewStatusClient(timeout time.Duration, retryMax int) *http.Client {
	return newClient(timeout, retryMax)
}

func newClient(timeout time.Duration, retryMax int) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil
	return rc.StandardClient()
}

// Do issues one JSON request. body (when non-nil) is marshaled with sonic;
// the response body is returned raw together with the status code so
// callers can surface upstream error payloads verbatim. A non-nil error
// means the request never completed (transport failure or cancellation).
func Do(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// Get is Do without a request body.
func Get(ctx context.Context, client *http.Client, url string, headers map[string]string) (int, []byte, error) {
	return Do(ctx, client, http.MethodGet, url, headers, nil)
}

// DecodeJSON unmarshals data into out with sonic.
func DecodeJSON(data []byte, out any) error {
	return sonic.Unmarshal(data, out)
}

// Snippet trims an upstream body for inclusion in an error message.
func Snippet(data []byte) string {
	const max = 256
	if len(data) > max {
		data = data[:max]
	}
	return string(bytes.TrimSpace(data))
}
