package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"github.com/angelmondragon/lockerbox-backend/pkg/storage"
)

const (
	defaultBaseURL = "https://storage.googleapis.com"
	pingTimeout    = 5 * time.Second
	errBodyLimit   = 2048
)

// Client talks to the GCS JSON API for a single bucket.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	bucket      string
	tokenSource oauth2.TokenSource
}

var _ storage.BlobStore = (*Client)(nil)

// Option configures optional client behavior.
type Option func(*Client)

// WithBaseURL points the client at an emulator or test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithStaticToken skips credential discovery.
func WithStaticToken(token string) Option {
	return func(c *Client) {
		c.tokenSource = staticTokenSource(token)
	}
}

// NewClient resolves credentials from the GCP config and checks the bucket is
// reachable.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		bucket:     cfg.BucketName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.tokenSource == nil {
		ts, err := tokenSourceFor(ctx, gcp)
		if err != nil {
			return nil, err
		}
		client.tokenSource = oauth2.ReuseTokenSource(nil, ts)
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs client initialized")
	}
	return client, nil
}

func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

func (c *Client) Close() error {
	return nil
}

// Ping lists at most one object, which needs storage.objects.list.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/storage/v1/b/%s/o?maxResults=1", c.baseURL, url.PathEscape(c.bucket))
	resp, err := c.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check failed", resp)
	}
	return nil
}

// Put uploads body with a simple media upload, replacing any existing object.
func (c *Client) Put(ctx context.Context, key string, body []byte, contentType string) error {
	u := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
		c.baseURL, url.PathEscape(c.bucket), url.QueryEscape(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := c.do(ctx, http.MethodPost, u, bytes.NewReader(body), contentType)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs upload failed", resp)
	}
	return nil
}

// Get streams an object's media. The caller closes Body.
func (c *Client) Get(ctx context.Context, key string) (*storage.Object, error) {
	resp, err := c.do(ctx, http.MethodGet, c.objectURL(key)+"?alt=media", nil, "")
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return &storage.Object{
			Body:        resp.Body,
			ContentType: resp.Header.Get("Content-Type"),
			Size:        resp.ContentLength,
		}, nil
	case http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, storage.ErrNotFound
	default:
		defer func() { _ = resp.Body.Close() }()
		return nil, statusError("gcs download failed", resp)
	}
}

func (c *Client) Delete(ctx context.Context, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.objectURL(key), nil, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return storage.ErrNotFound
	default:
		return statusError("gcs delete failed", resp)
	}
}

func (c *Client) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/b/%s/o/%s", c.baseURL, url.PathEscape(c.bucket), url.PathEscape(key))
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	token, err := c.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("gcs token: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.httpClient.Do(req)
}

func statusError(msg string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
	if len(b) > 0 {
		return fmt.Errorf("%s: %s: %s", msg, resp.Status, strings.TrimSpace(string(b)))
	}
	return fmt.Errorf("%s: %s", msg, resp.Status)
}
