// Package pdf renders HTML documents to PDF through a Gotenberg service.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no Gotenberg URL was supplied.
var ErrNotConfigured = errors.New("pdf: gotenberg not configured")

// PageOptions tunes the chromium conversion.
type PageOptions struct {
	Landscape bool
	// Margin in inches applied to every side. Zero keeps the Gotenberg default.
	Margin float64
}

// Client wraps interactions with the Gotenberg API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ping checks if the remote Gotenberg service is available.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.baseURL == "" {
		return ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("pdf: gotenberg health returned status %d", resp.StatusCode)
	}
	return nil
}

// RenderHTML converts an HTML document into PDF bytes.
func (c *Client) RenderHTML(ctx context.Context, html []byte, opts PageOptions) ([]byte, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, bytes.NewReader(html)); err != nil {
		return nil, err
	}
	if opts.Landscape {
		if err := writer.WriteField("landscape", "true"); err != nil {
			return nil, err
		}
	}
	if opts.Margin > 0 {
		margin := fmt.Sprintf("%g", opts.Margin)
		for _, field := range []string{"marginTop", "marginBottom", "marginLeft", "marginRight"} {
			if err := writer.WriteField(field, margin); err != nil {
				return nil, err
			}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("pdf: render failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
