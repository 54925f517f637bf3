package wikimedia

import (
	"fmt"
	"net/url"
)

const (
	// DefaultBaseURL is the Wikimedia Commons API endpoint
	DefaultBaseURL = "https://commons.wikimedia.org/w/api.php"

	// FileNamespace is the MediaWiki namespace for file pages
	FileNamespace = 6

	// FilePrefix is the title prefix of pages in the file namespace
	FilePrefix = "File:"

	// MaxSearchLimit is the maximum number of results a generator search may request
	MaxSearchLimit = 50

	// bitmapFilter restricts search results to bitmap images
	bitmapFilter = "filetype:bitmap"
)

// SearchURL constructs a generator-based search query scoped to the file
// namespace, requesting url/mime/size as imageinfo side metadata.
func SearchURL(baseURL, term string, namespace, limit int) string {
	if limit <= 0 || limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("generator", "search")
	params.Set("gsrnamespace", fmt.Sprintf("%d", namespace))
	params.Set("gsrsearch", fmt.Sprintf("%s %s", bitmapFilter, term))
	params.Set("gsrlimit", fmt.Sprintf("%d", limit))
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url|mime|size")

	return fmt.Sprintf("%s?%s", baseURL, params.Encode())
}

// FileInfoURL constructs a direct imageinfo lookup for a single file title
func FileInfoURL(baseURL, filename string) string {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url|size|mime")
	params.Set("titles", FilePrefix+filename)

	return fmt.Sprintf("%s?%s", baseURL, params.Encode())
}
