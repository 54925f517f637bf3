package ui

import (
	"fmt"
	"io"
	"os"
)

// ProgressPrinter renders single-file download progress on one terminal line
type ProgressPrinter struct {
	out io.Writer
}

// NewProgressPrinter creates a progress printer writing to stdout
func NewProgressPrinter() *ProgressPrinter {
	return NewProgressPrinterTo(os.Stdout)
}

// NewProgressPrinterTo creates a progress printer writing to out
func NewProgressPrinterTo(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{out: out}
}

// Start announces a new download and its declared size
func (p *ProgressPrinter) Start(title string, totalBytes int64) {
	fmt.Fprintf(p.out, "\nDownloading: %s\n", title)
	if totalBytes > 0 {
		fmt.Fprintf(p.out, "File size: %.1f MB\n", float64(totalBytes)/1024/1024)
	}
}

// Update redraws the percentage line; only called when the total is known
func (p *ProgressPrinter) Update(downloaded, total int64) {
	if total <= 0 {
		return
	}
	fmt.Fprintf(p.out, "\rProgress: %.1f%%", float64(downloaded)/float64(total)*100)
}

// Done terminates the progress line after a successful download
func (p *ProgressPrinter) Done() {
	fmt.Fprintln(p.out, "\nDownload complete!")
}

// Failed terminates the progress line after a failed download
func (p *ProgressPrinter) Failed(err error) {
	fmt.Fprintf(p.out, "\nError downloading file: %v\n", err)
}
