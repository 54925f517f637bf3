// Package wikimedia provides a client for the Wikimedia Commons API.
//
// This package includes:
//   - A configurable HTTP client with proper headers and error handling
//   - Type-safe models for MediaWiki action=query responses
//   - Helper functions for constructing API endpoints
//
// Example usage:
//
//	client := wikimedia.NewClient(30*time.Second, wikimedia.Options{}, nil)
//
//	// Search for bitmap images
//	pages := client.Search("golden gate bridge")
//	for _, page := range pages {
//	    if info, ok := page.FirstImageInfo(); ok {
//	        // info.URL is the direct asset URL
//	    }
//	}
//
//	// Look up a single file
//	info, ok := client.FileInfo("Golden_Gate_Bridge.jpg")
//
// Search and FileInfo never return errors: failures are logged and
// surface as empty results, so a bad response cannot abort a batch.
package wikimedia
