// Package fetch performs plain HTTP GETs for photo bytes and remote JSON.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"photowall/pkg/errors"
	"photowall/pkg/logger"
)

// DefaultUserAgent matches the browser profile used for scraping
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client is an HTTP client with fixed request headers
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a new client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      DefaultUserAgent,
			"Accept":          "image/avif,image/webp,image/apng,image/*,application/json;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		logger: log,
	}
}

// WithHTTPClient replaces the underlying transport client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		code := errors.CodeNetwork
		switch req.Context().Err() {
		case context.Canceled:
			code = errors.CodeCanceled
		case context.DeadlineExceeded:
			code = errors.CodeTimeout
		}
		return nil, errors.NewIngestion(code, "request failed", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request. The caller closes the body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewIngestion(errors.CodeNetwork, "failed to create request", err)
	}
	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response.
// Non-2xx responses are returned as a *StatusError carrying the body.
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewIngestion(errors.CodeNetwork, "failed to read response body", err)
	}

	if err := c.checkResponseStatus(resp, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.NewIngestion(errors.CodeDecode, "failed to parse JSON", err)
	}

	return nil
}

// Download fetches url and returns the body bytes
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	c.logger.DebugWithFields("downloading photo", map[string]interface{}{
		"url": url,
	})

	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp, nil); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewIngestion(errors.CodeNetwork, "failed to read photo data", err)
	}

	c.logger.DebugWithFields("downloaded photo", map[string]interface{}{
		"url":   url,
		"bytes": len(data),
	})
	return data, nil
}

// StatusError is a non-2xx response. Body holds the response bytes when
// they were read.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

func (c *Client) checkResponseStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	fields := map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	}
	statusErr := &StatusError{StatusCode: resp.StatusCode, Body: body}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", fields)
		return &errors.Error{Type: errors.ErrorTypeRateLimit, Message: "rate limit exceeded", Err: statusErr}
	case resp.StatusCode >= 500:
		c.logger.ErrorWithFields("server error", fields)
		return errors.NewIngestion(errors.CodeStatus, "server error", statusErr)
	default:
		c.logger.WarnWithFields("unexpected status", fields)
		return errors.NewIngestion(errors.CodeStatus, "request rejected", statusErr)
	}
}
