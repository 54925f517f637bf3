// Package scraper provides the core functionality for downloading Commons images.
//
// The scraper package orchestrates the entire download process, coordinating
// between the Wikimedia API client, the file downloader, storage management
// and throttling.
//
// Per search term, the Scraper:
//   - derives and creates the download directory (spaces become underscores)
//   - runs a generator-based search capped at 50 results
//   - walks candidates in relevance order until the requested number of
//     successful downloads is collected
//   - discards zero-byte artifacts and cleans up partial files
//   - sleeps a fixed delay between candidates
//   - writes a markdown report of everything that was saved
//
// A failing candidate is logged and skipped; it neither aborts the batch
// nor counts toward the requested maximum.
package scraper
