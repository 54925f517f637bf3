package scraper

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"wikiscraper/pkg/config"
	"wikiscraper/pkg/downloader"
	"wikiscraper/pkg/logger"
	"wikiscraper/pkg/ratelimit"
	"wikiscraper/pkg/report"
	"wikiscraper/pkg/storage"
	"wikiscraper/pkg/ui"
	"wikiscraper/pkg/wikimedia"
)

// Scraper orchestrates the search, download and report flow for one term
type Scraper struct {
	client       SearchClient
	downloader   FileDownloader
	storage      *storage.Manager
	reportWriter *report.Writer
	limiter      ratelimit.Limiter
	progress     *ui.ProgressPrinter
	config       *config.Config
	logger       logger.Logger
}

// New creates a new Scraper instance backed by the OS filesystem
func New(cfg *config.Config) *Scraper {
	return NewWithFs(afero.NewOsFs(), cfg)
}

// NewWithFs creates a Scraper writing to the given filesystem
func NewWithFs(fs afero.Fs, cfg *config.Config) *Scraper {
	log := logger.GetLogger()

	client := wikimedia.NewClient(cfg.API.Timeout, wikimedia.Options{
		BaseURL:     cfg.API.BaseURL,
		UserAgent:   cfg.API.UserAgent,
		SearchLimit: cfg.Search.Limit,
		Namespace:   cfg.Search.Namespace,
	}, log)

	dl := downloader.NewWithFs(fs, cfg.Download.DownloadTimeout, cfg.Download.ChunkSize, log)
	dl.SetUserAgent(cfg.API.UserAgent)

	return &Scraper{
		client:       client,
		downloader:   dl,
		storage:      storage.NewManagerWithFs(fs, cfg.Download.BaseDirectory),
		reportWriter: report.NewWriterWithFs(fs),
		limiter:      ratelimit.NewFixedInterval(cfg.Throttle.Delay),
		progress:     ui.NewProgressPrinter(),
		config:       cfg,
		logger:       log,
	}
}

// Run searches for images matching term and downloads up to maxImages of
// them, writing a markdown report alongside the files. Returns the number
// of successful downloads. Per-candidate failures are logged and skipped;
// only setup failures (e.g. an unwritable download directory) are errors.
func (s *Scraper) Run(term string, maxImages int) (int, error) {
	if strings.TrimSpace(term) == "" {
		return 0, fmt.Errorf("search term cannot be empty")
	}

	log := s.logger.WithFields(map[string]interface{}{
		"run_id": uuid.NewString(),
		"term":   term,
	})

	dir, err := s.storage.DirFor(term)
	if err != nil {
		log.WithError(err).Error("failed to create download directory")
		return 0, err
	}
	ui.PrintInfo("Download directory", dir)

	log.InfoWithFields("starting batch", map[string]interface{}{
		"max_images": maxImages,
	})

	pages := s.client.Search(term)
	if len(pages) == 0 {
		ui.PrintWarning("No images found.")
		return 0, nil
	}
	fmt.Printf("Found %d potential images\n", len(pages))

	var records []report.Record
	for _, page := range pages {
		if rec, ok := s.processCandidate(log, page, dir); ok {
			records = append(records, rec)
		}

		if len(records) >= maxImages {
			break
		}

		// Fixed throttle between candidates, success or not
		s.limiter.Wait()
	}

	if len(records) > 0 {
		reportPath := filepath.Join(dir, report.FileName)
		if err := s.reportWriter.Write(reportPath, records); err != nil {
			log.WithError(err).Error("failed to write report")
		} else {
			ui.PrintInfo("Download report saved to", reportPath)
		}
	}

	log.InfoWithFields("batch completed", map[string]interface{}{
		"downloaded": len(records),
		"candidates": len(pages),
	})

	return len(records), nil
}

// processCandidate drives one search result through the candidate states:
// skipped, failed, empty-discarded or recorded. It never returns an error;
// a bad entry must not abort the batch.
func (s *Scraper) processCandidate(log logger.Logger, page wikimedia.Page, dir string) (report.Record, bool) {
	title := page.CleanTitle()
	if strings.TrimSpace(title) == "" {
		log.Debug("skipping candidate without title")
		return report.Record{}, false
	}

	clog := log.WithField("title", title)

	info, ok := page.FirstImageInfo()
	if !ok || info.URL == "" {
		clog.Debug("skipping candidate without image info")
		return report.Record{}, false
	}

	filename, err := storage.SafeFilename(page.Title)
	if err != nil {
		clog.WithError(err).Warn("skipping candidate with unsafe title")
		return report.Record{}, false
	}

	destPath := filepath.Join(dir, filename)

	s.progress.Start(title, info.Size)
	fmt.Printf("URL: %s\n", info.URL)

	result, err := s.downloader.Download(info.URL, destPath, s.progress.Update)
	if err != nil {
		s.progress.Failed(err)
		clog.WithError(err).Error("download failed")
		return report.Record{}, false
	}
	s.progress.Done()

	// Verify on disk; a zero-byte artifact is not a download
	discarded, err := s.storage.DiscardIfEmpty(destPath)
	if err != nil {
		clog.WithError(err).Error("failed to verify downloaded file")
		return report.Record{}, false
	}
	if discarded {
		ui.PrintWarning("Downloaded file is empty, skipping...")
		clog.Warn("discarded empty download")
		return report.Record{}, false
	}

	size, err := s.storage.FileSize(destPath)
	if err != nil {
		clog.WithError(err).Error("failed to stat downloaded file")
		return report.Record{}, false
	}

	ui.PrintSuccess(fmt.Sprintf("Successfully saved to: %s", destPath))
	clog.InfoWithFields("download recorded", map[string]interface{}{
		"file":     filename,
		"size":     size,
		"duration": result.Duration,
	})

	return report.Record{
		Filename: filename,
		URL:      info.URL,
		Size:     report.HumanSize(size),
	}, true
}
