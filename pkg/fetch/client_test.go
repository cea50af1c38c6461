package fetch

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photowall/pkg/errors"
	"photowall/pkg/logger"
)

type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

func newTestClient(log logger.Logger, handler func(req *http.Request) (*http.Response, error)) *Client {
	return NewClient(30*time.Second, log).WithHTTPClient(&http.Client{
		Transport: &mockRoundTripper{handler: handler},
	})
}

func newResponse(req *http.Request, statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
		Request:    req,
	}
}

func TestDownloadSendsHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(logger.NewTestLogger(), func(req *http.Request) (*http.Response, error) {
		got = req.Header.Clone()
		return newResponse(req, http.StatusOK, "jpegbytes"), nil
	})
	c.SetHeader("Referer", "https://unsplash.com/")

	data, err := c.Download(context.Background(), "https://images.unsplash.com/photo-abc?w=1920")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), data)
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.Equal(t, "https://unsplash.com/", got.Get("Referer"))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantType  errors.ErrorType
		retryable bool
	}{
		{"not found", http.StatusNotFound, errors.ErrorTypeIngestion, false},
		{"rate limited", http.StatusTooManyRequests, errors.ErrorTypeRateLimit, true},
		{"server error", http.StatusBadGateway, errors.ErrorTypeIngestion, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logger.NewTestLogger()
			c := newTestClient(log, func(req *http.Request) (*http.Response, error) {
				return newResponse(req, tt.status, ""), nil
			})

			_, err := c.Download(context.Background(), "https://example.com/p.jpg")
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errors.TypeOf(err))
			assert.Equal(t, tt.retryable, errors.IsRetryable(err))

			var se *StatusError
			require.True(t, stderrors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestNetworkErrorIsRetryable(t *testing.T) {
	c := newTestClient(logger.NewTestLogger(), func(req *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})

	_, err := c.Download(context.Background(), "https://example.com/p.jpg")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.Error{Type: errors.ErrorTypeIngestion, Code: errors.CodeNetwork}))
	assert.True(t, errors.IsRetryable(err))
}

func TestGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"query":"cats","count":0,"photos":[]}`))
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Query parameter is required"}`))
		default:
			w.Write([]byte(`not json`))
		}
	}))
	defer ts.Close()

	log := logger.NewTestLogger()
	c := NewClient(5*time.Second, log)

	var out struct {
		Query string `json:"query"`
	}
	require.NoError(t, c.GetJSON(context.Background(), ts.URL+"/ok", &out))
	assert.Equal(t, "cats", out.Query)

	err := c.GetJSON(context.Background(), ts.URL+"/bad", &out)
	var se *StatusError
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Contains(t, string(se.Body), "Query parameter is required")

	err = c.GetJSON(context.Background(), ts.URL+"/garbage", &out)
	assert.True(t, stderrors.Is(err, &errors.Error{Type: errors.ErrorTypeIngestion, Code: errors.CodeDecode}))
	assert.True(t, log.HasMessage("failed to parse JSON response"))
}

func TestExpiredRequestIsTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(5*time.Second, logger.NewTestLogger()).Download(ctx, ts.URL)
	assert.True(t, stderrors.Is(err, &errors.Error{Type: errors.ErrorTypeIngestion, Code: errors.CodeTimeout}))
}

func TestCancelledRequestIsNotRetryable(t *testing.T) {
	started := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := NewClient(5*time.Second, logger.NewTestLogger()).Download(ctx, ts.URL)
	assert.True(t, stderrors.Is(err, &errors.Error{Type: errors.ErrorTypeIngestion, Code: errors.CodeCanceled}))
	assert.False(t, errors.IsRetryable(err))
}
