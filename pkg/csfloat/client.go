package csfloat

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"gammascope/pkg/config"
	errs "gammascope/pkg/errors"
	"gammascope/pkg/logger"
)

// Client talks to the screenshot API and the image host
type Client struct {
	httpClient   *http.Client
	headers      map[string]string
	baseURL      string
	imageBaseURL string
	imageQuery   string
	logger       logger.Logger
}

// NewClient creates a new API client from cfg
func NewClient(cfg config.APIConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		headers: map[string]string{
			"Accept":          "application/json, image/*;q=0.9, */*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		imageQuery:   cfg.ImageQuery,
		logger:       log.WithField("component", "csfloat"),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.imageBaseURL == "" {
		c.imageBaseURL = DefaultImageBaseURL
	}
	if cfg.UserAgent != "" {
		c.headers["User-Agent"] = cfg.UserAgent
	}
	if cfg.APIKey != "" {
		c.headers["Authorization"] = cfg.APIKey
	}
	return c
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// ImageURL builds the absolute URL of a screenshot path
func (c *Client) ImageURL(path string) string {
	return ImageURL(c.imageBaseURL, path, c.imageQuery)
}

// doRequest performs a GET with the configured headers
func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      rawURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.New(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}

	logger.LogRequest(c.logger, req.Method, rawURL, resp.StatusCode, duration)
	return resp, nil
}

// checkResponseStatus maps every non-200 status to a typed error
func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return errs.FromStatus(resp.StatusCode)
}

// Lookup resolves a signed inspect link to its screenshot paths.
// A 200 whose body lacks either path is a parsing error.
func (c *Client) Lookup(ctx context.Context, sig, inspect string) (*ScreenshotResponse, error) {
	resp, err := c.doRequest(ctx, ScreenshotURL(c.baseURL, sig, inspect))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}

	var out ScreenshotResponse
	if err := json.Unmarshal(body, &out); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.DebugWithFields("failed to parse JSON response", map[string]interface{}{
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, errs.New(errs.ErrorTypeParsing, resp.StatusCode, "failed to parse JSON: %v", err)
	}
	if !out.Complete() {
		return nil, errs.New(errs.ErrorTypeParsing, resp.StatusCode, "response is missing a side path")
	}

	return &out, nil
}

// DownloadImage fetches the raw bytes of an image URL
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	resp, err := c.doRequest(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read image: %v", err)
	}
	if len(data) == 0 {
		return nil, errs.New(errs.ErrorTypeParsing, resp.StatusCode, "empty image body")
	}

	c.logger.DebugWithFields("downloaded image", map[string]interface{}{
		"url":  imageURL,
		"size": len(data),
	})
	return data, nil
}

