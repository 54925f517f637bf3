package wikimedia

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"wikiscraper/pkg/errors"
	"wikiscraper/pkg/logger"
)

// Client is a MediaWiki API client for Wikimedia Commons
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	baseURL     string
	searchLimit int
	namespace   int
	logger      logger.Logger
}

// Options configures a Client beyond its defaults
type Options struct {
	BaseURL     string
	UserAgent   string
	SearchLimit int
	Namespace   int
}

// NewClient creates a new Commons API client
func NewClient(timeout time.Duration, opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	searchLimit := opts.SearchLimit
	if searchLimit <= 0 || searchLimit > MaxSearchLimit {
		searchLimit = MaxSearchLimit
	}
	namespace := opts.Namespace
	if namespace <= 0 {
		namespace = FileNamespace
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "wikiscraper/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		baseURL:     baseURL,
		searchLimit: searchLimit,
		namespace:   namespace,
		logger:      log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
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
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(url string, target interface{}) error {
	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		// Keep a preview of the raw body for diagnostics
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
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 500:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 400:
		c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	default:
		return nil
	}
}

// Search runs a generator-based search for bitmap images matching the term.
// Results are ordered by relevance (the API's index field). Transport and
// parse failures are logged and yield an empty slice, never an error: a
// failed search is indistinguishable from an empty one by design of the
// batch flow, which treats both as "nothing to download".
func (c *Client) Search(term string) []Page {
	endpoint := SearchURL(c.baseURL, term, c.namespace, c.searchLimit)

	c.logger.InfoWithFields("searching Commons", map[string]interface{}{
		"term": term,
	})

	var response QueryResponse
	if err := c.GetJSON(endpoint, &response); err != nil {
		c.logger.ErrorWithFields("search request failed", map[string]interface{}{
			"term":  term,
			"error": err.Error(),
		})
		return nil
	}

	if response.Query == nil || len(response.Query.Pages) == 0 {
		c.logger.WarnWithFields("search returned no results", map[string]interface{}{
			"term": term,
		})
		return nil
	}

	pages := make([]Page, 0, len(response.Query.Pages))
	for _, page := range response.Query.Pages {
		pages = append(pages, page)
	}

	// The pages object is keyed by page ID; relevance order lives in Index
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Index < pages[j].Index
	})

	c.logger.InfoWithFields("search completed", map[string]interface{}{
		"term":    term,
		"results": len(pages),
	})

	return pages
}

// FileInfo looks up the direct URL, size and MIME type for a single file.
// Returns the first available info record; any failure is logged and
// reported as a missing result, never raised to the caller.
func (c *Client) FileInfo(filename string) (ImageInfo, bool) {
	if filename == "" {
		c.logger.Warn("file info requested for empty filename")
		return ImageInfo{}, false
	}

	endpoint := FileInfoURL(c.baseURL, filename)

	var response QueryResponse
	if err := c.GetJSON(endpoint, &response); err != nil {
		c.logger.ErrorWithFields("file info request failed", map[string]interface{}{
			"filename": filename,
			"error":    err.Error(),
		})
		return ImageInfo{}, false
	}

	if response.Query == nil {
		return ImageInfo{}, false
	}

	for _, page := range response.Query.Pages {
		if info, ok := page.FirstImageInfo(); ok {
			return info, true
		}
	}

	return ImageInfo{}, false
}
