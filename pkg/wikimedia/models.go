package wikimedia

import "strings"

// QueryResponse is the top-level envelope of a MediaWiki action=query response.
// Query is nil when the API returns no results (e.g. an empty generator).
type QueryResponse struct {
	BatchComplete string `json:"batchcomplete"`
	Query         *Query `json:"query"`
}

// Query holds the pages returned by a query. The API keys pages by page ID,
// so relevance order has to be recovered from each page's Index field.
type Query struct {
	Pages map[string]Page `json:"pages"`
}

// Page is a single file page returned by search or a title lookup
type Page struct {
	PageID    int         `json:"pageid"`
	Namespace int         `json:"ns"`
	Title     string      `json:"title"`
	Index     int         `json:"index"`
	ImageInfo []ImageInfo `json:"imageinfo"`
}

// ImageInfo describes the remotely hosted binary behind a file page
type ImageInfo struct {
	URL            string `json:"url"`
	DescriptionURL string `json:"descriptionurl"`
	Mime           string `json:"mime"`
	Size           int64  `json:"size"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// FirstImageInfo returns the first imageinfo entry for the page, if any
func (p Page) FirstImageInfo() (ImageInfo, bool) {
	if len(p.ImageInfo) == 0 {
		return ImageInfo{}, false
	}
	return p.ImageInfo[0], true
}

// CleanTitle returns the page title without the "File:" namespace prefix
func (p Page) CleanTitle() string {
	return strings.TrimPrefix(p.Title, FilePrefix)
}
