package scraper

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiscraper/pkg/config"
	"wikiscraper/pkg/downloader"
	"wikiscraper/pkg/logger"
	"wikiscraper/pkg/report"
	"wikiscraper/pkg/storage"
	"wikiscraper/pkg/ui"
	"wikiscraper/pkg/wikimedia"
)

// stubClient serves canned search results
type stubClient struct {
	pages []wikimedia.Page
}

func (s *stubClient) Search(term string) []wikimedia.Page {
	return s.pages
}

func (s *stubClient) FileInfo(filename string) (wikimedia.ImageInfo, bool) {
	return wikimedia.ImageInfo{}, false
}

// stubDownloader writes canned content to the filesystem instead of
// fetching anything, and can be told to fail for specific URLs
type stubDownloader struct {
	fs      afero.Fs
	content map[string][]byte
	fail    map[string]bool
	calls   []string
}

func (d *stubDownloader) Download(url, destPath string, progress downloader.ProgressFunc) (downloader.Result, error) {
	d.calls = append(d.calls, url)

	if d.fail[url] {
		return downloader.Result{URL: url, Path: destPath}, fmt.Errorf("simulated download failure")
	}

	content := d.content[url]
	if err := afero.WriteFile(d.fs, destPath, content, 0644); err != nil {
		return downloader.Result{}, err
	}

	return downloader.Result{
		URL:  url,
		Path: destPath,
		Size: int64(len(content)),
	}, nil
}

// countingLimiter records how often the batch throttled
type countingLimiter struct {
	waits int
}

func (c *countingLimiter) Wait()                   { c.waits++ }
func (c *countingLimiter) Interval() time.Duration { return 0 }

func filePage(index int, title, url string, size int64) wikimedia.Page {
	return wikimedia.Page{
		PageID:    index * 100,
		Namespace: 6,
		Title:     title,
		Index:     index,
		ImageInfo: []wikimedia.ImageInfo{
			{URL: url, Mime: "image/jpeg", Size: size},
		},
	}
}

func newTestScraper(fs afero.Fs, client *stubClient, dl *stubDownloader, limiter *countingLimiter) *Scraper {
	return &Scraper{
		client:       client,
		downloader:   dl,
		storage:      storage.NewManagerWithFs(fs, "downloads"),
		reportWriter: report.NewWriterWithFs(fs),
		limiter:      limiter,
		progress:     ui.NewProgressPrinterTo(io.Discard),
		config:       config.DefaultConfig(),
		logger:       logger.NewTestLogger(),
	}
}

func TestRunDownloadsUpToMax(t *testing.T) {
	fs := afero.NewMemMapFs()

	client := &stubClient{pages: []wikimedia.Page{
		filePage(1, "File:First.jpg", "https://upload.example.org/first.jpg", 10),
		filePage(2, "File:Second.jpg", "https://upload.example.org/second.jpg", 20),
		filePage(3, "File:Third.jpg", "https://upload.example.org/third.jpg", 30),
	}}
	dl := &stubDownloader{fs: fs, content: map[string][]byte{
		"https://upload.example.org/first.jpg":  []byte("first image"),
		"https://upload.example.org/second.jpg": []byte("second image"),
		"https://upload.example.org/third.jpg":  []byte("third image"),
	}}
	limiter := &countingLimiter{}

	s := newTestScraper(fs, client, dl, limiter)
	count, err := s.Run("lighthouse", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The cap stops the batch before the third candidate
	assert.Equal(t, []string{
		"https://upload.example.org/first.jpg",
		"https://upload.example.org/second.jpg",
	}, dl.calls)

	dir := filepath.Join("downloads", "lighthouse")
	for _, name := range []string{"First.jpg", "Second.jpg"} {
		exists, ferr := afero.Exists(fs, filepath.Join(dir, name))
		require.NoError(t, ferr)
		assert.True(t, exists, "expected %s on disk", name)
	}

	content, err := afero.ReadFile(fs, filepath.Join(dir, report.FileName))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(content), "## "))
	assert.Contains(t, string(content), "## First.jpg")
	assert.Contains(t, string(content), "## Second.jpg")
	assert.NotContains(t, string(content), "Third.jpg")

	// Throttled once, between the two candidates; none after the break
	assert.Equal(t, 1, limiter.waits)
}

func TestRunFailuresDoNotCountTowardMax(t *testing.T) {
	fs := afero.NewMemMapFs()

	client := &stubClient{pages: []wikimedia.Page{
		filePage(1, "File:Broken.jpg", "https://upload.example.org/broken.jpg", 10),
		filePage(2, "File:Good.jpg", "https://upload.example.org/good.jpg", 20),
		filePage(3, "File:Also good.jpg", "https://upload.example.org/also.jpg", 30),
	}}
	dl := &stubDownloader{
		fs: fs,
		content: map[string][]byte{
			"https://upload.example.org/good.jpg": []byte("good"),
			"https://upload.example.org/also.jpg": []byte("also good"),
		},
		fail: map[string]bool{"https://upload.example.org/broken.jpg": true},
	}

	s := newTestScraper(fs, client, dl, &countingLimiter{})
	count, err := s.Run("bridge", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// All three candidates were attempted to fill the quota
	assert.Len(t, dl.calls, 3)

	content, rerr := afero.ReadFile(fs, filepath.Join("downloads", "bridge", report.FileName))
	require.NoError(t, rerr)
	assert.NotContains(t, string(content), "Broken.jpg")
	assert.Contains(t, string(content), "## Good.jpg")
	assert.Contains(t, string(content), "## Also_good.jpg")
}

func TestRunDiscardsEmptyDownloads(t *testing.T) {
	fs := afero.NewMemMapFs()

	client := &stubClient{pages: []wikimedia.Page{
		filePage(1, "File:Empty.jpg", "https://upload.example.org/empty.jpg", 0),
	}}
	dl := &stubDownloader{fs: fs, content: map[string][]byte{
		"https://upload.example.org/empty.jpg": {},
	}}

	s := newTestScraper(fs, client, dl, &countingLimiter{})
	count, err := s.Run("void", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	dir := filepath.Join("downloads", "void")

	// The zero-byte artifact is gone and nothing made it into a report
	exists, ferr := afero.Exists(fs, filepath.Join(dir, "Empty.jpg"))
	require.NoError(t, ferr)
	assert.False(t, exists)

	exists, ferr = afero.Exists(fs, filepath.Join(dir, report.FileName))
	require.NoError(t, ferr)
	assert.False(t, exists)
}

func TestRunSkipsCandidatesWithoutImageInfo(t *testing.T) {
	fs := afero.NewMemMapFs()

	// Three results, two with a usable URL, quota well above both
	client := &stubClient{pages: []wikimedia.Page{
		filePage(1, "File:Has info.jpg", "https://upload.example.org/has.jpg", 10),
		{PageID: 2, Namespace: 6, Title: "File:No info.jpg", Index: 2},
		filePage(3, "File:More info.jpg", "https://upload.example.org/more.jpg", 30),
	}}
	dl := &stubDownloader{fs: fs, content: map[string][]byte{
		"https://upload.example.org/has.jpg":  []byte("content"),
		"https://upload.example.org/more.jpg": []byte("more content"),
	}}

	s := newTestScraper(fs, client, dl, &countingLimiter{})
	count, err := s.Run("partial", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, []string{
		"https://upload.example.org/has.jpg",
		"https://upload.example.org/more.jpg",
	}, dl.calls)

	content, rerr := afero.ReadFile(fs, filepath.Join("downloads", "partial", report.FileName))
	require.NoError(t, rerr)
	assert.Equal(t, 2, strings.Count(string(content), "## "))
}

func TestRunSkipsUnsafeTitles(t *testing.T) {
	fs := afero.NewMemMapFs()

	client := &stubClient{pages: []wikimedia.Page{
		filePage(1, "File:../escape.jpg", "https://upload.example.org/escape.jpg", 10),
		filePage(2, "File:Safe.jpg", "https://upload.example.org/safe.jpg", 20),
	}}
	dl := &stubDownloader{fs: fs, content: map[string][]byte{
		"https://upload.example.org/escape.jpg": []byte("nope"),
		"https://upload.example.org/safe.jpg":   []byte("fine"),
	}}

	s := newTestScraper(fs, client, dl, &countingLimiter{})
	count, err := s.Run("escape artist", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The unsafe candidate never reached the downloader
	assert.Equal(t, []string{"https://upload.example.org/safe.jpg"}, dl.calls)
}

func TestRunEmptySearch(t *testing.T) {
	fs := afero.NewMemMapFs()

	s := newTestScraper(fs, &stubClient{}, &stubDownloader{fs: fs}, &countingLimiter{})
	count, err := s.Run("no such thing", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	exists, ferr := afero.Exists(fs, filepath.Join("downloads", "no_such_thing", report.FileName))
	require.NoError(t, ferr)
	assert.False(t, exists)
}

func TestRunEmptyTerm(t *testing.T) {
	fs := afero.NewMemMapFs()

	s := newTestScraper(fs, &stubClient{}, &stubDownloader{fs: fs}, &countingLimiter{})

	for _, term := range []string{"", "   "} {
		count, err := s.Run(term, 5)
		assert.Error(t, err)
		assert.Equal(t, 0, count)
	}

	// No download directory comes into being for a rejected term
	empty, ferr := afero.IsEmpty(fs, "/")
	require.NoError(t, ferr)
	assert.True(t, empty)
}

func TestRunThrottlesBetweenEveryCandidate(t *testing.T) {
	fs := afero.NewMemMapFs()

	client := &stubClient{pages: []wikimedia.Page{
		filePage(1, "File:A.jpg", "https://upload.example.org/a.jpg", 1),
		filePage(2, "File:B.jpg", "https://upload.example.org/b.jpg", 2),
		filePage(3, "File:C.jpg", "https://upload.example.org/c.jpg", 3),
	}}
	dl := &stubDownloader{
		fs:      fs,
		content: map[string][]byte{"https://upload.example.org/b.jpg": []byte("b")},
		fail: map[string]bool{
			"https://upload.example.org/a.jpg": true,
			"https://upload.example.org/c.jpg": true,
		},
	}
	limiter := &countingLimiter{}

	s := newTestScraper(fs, client, dl, limiter)
	count, err := s.Run("sparse", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Success or failure, the delay applies after each candidate
	assert.Equal(t, 3, limiter.waits)
}

func TestNewWithFsWiresComponents(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewWithFs(afero.NewMemMapFs(), cfg)

	require.NotNil(t, s.client)
	require.NotNil(t, s.downloader)
	require.NotNil(t, s.storage)
	require.NotNil(t, s.reportWriter)
	require.NotNil(t, s.limiter)
	assert.Equal(t, cfg.Throttle.Delay, s.limiter.Interval())
	assert.Equal(t, cfg.Download.BaseDirectory, s.storage.BaseDir())
}
