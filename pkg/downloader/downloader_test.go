package downloader

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiscraper/pkg/logger"
)

func newTestDownloader(fs afero.Fs) *Downloader {
	d := NewWithFs(fs, 10*time.Second, 4, logger.NewTestLogger())
	d.SetUserAgent("wikiscraper-test/1.0")
	return d
}

func TestDownload(t *testing.T) {
	content := []byte("this is the image payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wikiscraper-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		w.Write(content)
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	d := newTestDownloader(fs)

	var calls int
	var lastDownloaded, lastTotal int64
	result, err := d.Download(server.URL, "dest.jpg", func(downloaded, total int64) {
		calls++
		lastDownloaded = downloaded
		lastTotal = total
	})
	require.NoError(t, err)

	assert.Equal(t, int64(len(content)), result.Size)
	assert.Equal(t, "dest.jpg", result.Path)

	// Chunk size of 4 means multiple progress callbacks, ending at 100%
	assert.Greater(t, calls, 1)
	assert.Equal(t, int64(len(content)), lastDownloaded)
	assert.Equal(t, int64(len(content)), lastTotal)

	written, err := afero.ReadFile(fs, "dest.jpg")
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestDownloadUnknownLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flushing before the body is fully written suppresses the
		// automatic Content-Length, so the client sees a chunked response
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		w.Write([]byte("payload without declared length"))
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	d := newTestDownloader(fs)

	var calls int
	result, err := d.Download(server.URL, "dest.jpg", func(downloaded, total int64) {
		calls++
	})
	require.NoError(t, err)

	// No progress without a known total, but the file still lands
	assert.Equal(t, 0, calls)
	assert.Equal(t, int64(len("payload without declared length")), result.Size)
}

func TestDownloadStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	d := newTestDownloader(fs)

	_, err := d.Download(server.URL, "dest.jpg", nil)
	assert.Error(t, err)

	exists, ferr := afero.Exists(fs, "dest.jpg")
	require.NoError(t, ferr)
	assert.False(t, exists)
}

func TestDownloadInterruptedRemovesPartial(t *testing.T) {
	// Declaring more bytes than are written makes the server cut the
	// connection, so the client hits a read error mid-stream
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("only a few bytes"))
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	d := newTestDownloader(fs)

	_, err := d.Download(server.URL, "dest.jpg", nil)
	require.Error(t, err)

	// The partial file must not survive the failure
	exists, ferr := afero.Exists(fs, "dest.jpg")
	require.NoError(t, ferr)
	assert.False(t, exists)
}

func TestDownloadNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	fs := afero.NewMemMapFs()
	d := newTestDownloader(fs)

	_, err := d.Download(server.URL, "dest.jpg", nil)
	assert.Error(t, err)

	exists, ferr := afero.Exists(fs, "dest.jpg")
	require.NoError(t, ferr)
	assert.False(t, exists)
}

func TestDownloadNilProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("content"))
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	d := newTestDownloader(fs)

	result, err := d.Download(server.URL, "dest.jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(len("content")), result.Size)
}

func TestNewWithFsDefaults(t *testing.T) {
	d := NewWithFs(afero.NewMemMapFs(), time.Second, 0, logger.NewTestLogger())
	assert.Equal(t, DefaultChunkSize, d.chunkSize)

	d = NewWithFs(afero.NewMemMapFs(), time.Second, -1, logger.NewTestLogger())
	assert.Equal(t, DefaultChunkSize, d.chunkSize)
}
