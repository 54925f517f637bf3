package scraper

import (
	"wikiscraper/pkg/downloader"
	"wikiscraper/pkg/wikimedia"
)

// SearchClient defines the Commons API operations the scraper depends on
type SearchClient interface {
	Search(term string) []wikimedia.Page
	FileInfo(filename string) (wikimedia.ImageInfo, bool)
}

// FileDownloader defines the download operation the scraper depends on
type FileDownloader interface {
	Download(url, destPath string, progress downloader.ProgressFunc) (downloader.Result, error)
}
