// Package client searches a remote photowall server.
package client

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"photowall/pkg/config"
	"photowall/pkg/errors"
	"photowall/pkg/fetch"
	"photowall/pkg/logger"
	"photowall/pkg/models"
	"photowall/pkg/retry"
)

// Remote implements scraper.Searcher against GET <base>/api/search
type Remote struct {
	base  string
	http  *fetch.Client
	retry *retry.Config
	log   logger.Logger
}

// New creates a remote searcher for the server at base
func New(base string, timeout time.Duration, rc config.RetryConfig, log logger.Logger) *Remote {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.WithField("component", "client")
	r := retry.FromConfig(rc)
	r.Logger = log
	return &Remote{
		base:  strings.TrimRight(base, "/"),
		http:  fetch.NewClient(timeout, log),
		retry: r,
		log:   log,
	}
}

// WithHTTPClient swaps the transport, for tests
func (c *Remote) WithHTTPClient(hc *http.Client) *Remote {
	c.http.WithHTTPClient(hc)
	return c
}

// Search asks the server for photos matching query
func (c *Remote) Search(ctx context.Context, query string) (*models.SearchResponse, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errors.NewPrecondition("Query parameter is required")
	}

	endpoint := c.base + "/api/search?query=" + url.QueryEscape(q)
	resp, err := retry.DoWithResult(ctx, func(ctx context.Context) (*models.SearchResponse, error) {
		var out models.SearchResponse
		if err := c.http.GetJSON(ctx, endpoint, &out); err != nil {
			return nil, translate(err)
		}
		return &out, nil
	}, c.retry)
	if err != nil {
		logger.LogSearchTo(c.log, q, "remote", 0, err)
		return nil, err
	}
	if resp.Photos == nil {
		resp.Photos = []models.Photo{}
	}
	logger.LogSearchTo(c.log, q, "remote", len(resp.Photos), nil)
	return resp, nil
}

// Health reports whether the server answers /api/health with status ok
func (c *Remote) Health(ctx context.Context) error {
	var out models.HealthResponse
	if err := c.http.GetJSON(ctx, c.base+"/api/health", &out); err != nil {
		return translate(err)
	}
	if out.Status != "ok" {
		return errors.NewIngestion(errors.CodeStatus, "server unhealthy: "+out.Status, nil)
	}
	return nil
}

// translate turns the server's JSON error body back into a typed error
func translate(err error) error {
	var se *fetch.StatusError
	if !stderrors.As(err, &se) {
		return err
	}

	var body models.ErrorResponse
	_ = json.Unmarshal(se.Body, &body)
	msg := body.Error
	if body.Message != "" {
		msg += ": " + body.Message
	}
	if msg == "" {
		msg = se.Error()
	}

	switch se.StatusCode {
	case http.StatusBadRequest:
		return errors.NewPrecondition(msg)
	default:
		return err
	}
}
