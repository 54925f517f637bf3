package report

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// FileName is the report file written into each download directory
const FileName = "download_report.md"

// Record describes one successfully downloaded file.
// Size is human-readable, as rendered by HumanSize.
type Record struct {
	Filename string
	URL      string
	Size     string
}

// Writer serializes download records to a markdown report
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a report writer backed by the OS filesystem
func NewWriter() *Writer {
	return NewWriterWithFs(afero.NewOsFs())
}

// NewWriterWithFs creates a report writer on the given filesystem
func NewWriterWithFs(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Write renders the records to markdown and overwrites any existing
// report at path. The output is a pure function of the record sequence.
func (w *Writer) Write(path string, records []Record) error {
	if err := afero.WriteFile(w.fs, path, []byte(Render(records)), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Render produces the markdown document for the given records
func Render(records []Record) string {
	var b strings.Builder

	b.WriteString("# Downloaded Images Report\n\n")
	for _, r := range records {
		fmt.Fprintf(&b, "## %s\n", r.Filename)
		fmt.Fprintf(&b, "- Source: %s\n", r.URL)
		fmt.Fprintf(&b, "- Size: %s\n\n", r.Size)
	}

	return b.String()
}

// HumanSize renders a byte count the way the report expects it
func HumanSize(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/1024/1024)
}
