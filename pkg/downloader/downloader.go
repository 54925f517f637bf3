package downloader

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"wikiscraper/pkg/logger"
)

// DefaultChunkSize is the read buffer size used when none is configured
const DefaultChunkSize = 8192

// ProgressFunc reports download progress after each chunk.
// total is 0 when the server did not declare a content length.
type ProgressFunc func(downloaded, total int64)

// Result describes a completed download
type Result struct {
	URL      string
	Path     string
	Size     int64
	Duration time.Duration
}

// Downloader streams remote files to disk in fixed-size chunks
type Downloader struct {
	httpClient *http.Client
	fs         afero.Fs
	chunkSize  int
	userAgent  string
	logger     logger.Logger
}

// New creates a downloader backed by the OS filesystem
func New(timeout time.Duration, chunkSize int, log logger.Logger) *Downloader {
	return NewWithFs(afero.NewOsFs(), timeout, chunkSize, log)
}

// NewWithFs creates a downloader writing to the given filesystem
func NewWithFs(fs afero.Fs, timeout time.Duration, chunkSize int, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &Downloader{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		fs:        fs,
		chunkSize: chunkSize,
		userAgent: "wikiscraper/1.0",
		logger:    log,
	}
}

// SetUserAgent overrides the User-Agent header sent with download requests
func (d *Downloader) SetUserAgent(ua string) {
	d.userAgent = ua
}

// Download streams the resource at url to destPath, reporting progress
// after each chunk. On any failure the partial file at destPath is removed
// so no corrupt artifact is left behind.
func (d *Downloader) Download(url, destPath string, progress ProgressFunc) (Result, error) {
	start := time.Now()
	result := Result{
		URL:  url,
		Path: destPath,
	}

	d.logger.DebugWithFields("starting download", map[string]interface{}{
		"url":  url,
		"path": destPath,
	})

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.removePartial(destPath)
		return result, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.removePartial(destPath)
		return result, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	// 0 when the server did not send a Content-Length header
	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	out, err := d.fs.Create(destPath)
	if err != nil {
		return result, fmt.Errorf("failed to create file: %w", err)
	}

	var downloaded int64
	buf := make([]byte, d.chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				d.removePartial(destPath)
				return result, fmt.Errorf("failed to write file: %w", writeErr)
			}
			downloaded += int64(n)
			if progress != nil && total > 0 {
				progress(downloaded, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			d.removePartial(destPath)
			return result, fmt.Errorf("failed to read response body: %w", readErr)
		}
	}

	if err := out.Close(); err != nil {
		d.removePartial(destPath)
		return result, fmt.Errorf("failed to close file: %w", err)
	}

	result.Size = downloaded
	result.Duration = time.Since(start)

	d.logger.DebugWithFields("download completed", map[string]interface{}{
		"url":      url,
		"path":     destPath,
		"size":     downloaded,
		"duration": result.Duration,
	})

	return result, nil
}

// removePartial deletes any partially written file at path
func (d *Downloader) removePartial(path string) {
	if exists, _ := afero.Exists(d.fs, path); exists {
		if err := d.fs.Remove(path); err != nil {
			d.logger.WarnWithFields("failed to remove partial file", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
}
