package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"wikiscraper/pkg/config"
	"wikiscraper/pkg/logger"
	"wikiscraper/pkg/scraper"
	"wikiscraper/pkg/ui"
)

var (
	// Fetch command flags
	outputDir string
	maxImages int
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [term]",
	Short: "Search Commons and download matching images",
	Long: `Search Wikimedia Commons for bitmap images matching a term and
download up to a requested number of them.

When the term or --max flag is omitted, the command prompts for it
interactively. The maximum is clamped to [1, 500]; non-numeric input
falls back to the default of 10.

Downloads land in <output>/<term with spaces as underscores>/ together
with a download_report.md listing every saved file.`,
	Example: `  # Download up to 10 images of lighthouses
  wikiscraper fetch lighthouse --max 10

  # Multi-word terms work as plain arguments
  wikiscraper fetch golden gate bridge --max 25

  # Fully interactive
  wikiscraper fetch`,
	Args: cobra.ArbitraryArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "base output directory for downloads (default ./downloads)")
	fetchCmd.Flags().IntVar(&maxImages, "max", 0, "maximum number of images to download (prompts when omitted)")

	// Same flags on the root command so bare invocation behaves like fetch
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "base output directory for downloads (default ./downloads)")
	rootCmd.Flags().IntVar(&maxImages, "max", 0, "maximum number of images to download (prompts when omitted)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("Wikiscraper starting")

	reader := bufio.NewReader(os.Stdin)

	term := strings.TrimSpace(strings.Join(args, " "))
	if term == "" {
		fmt.Print("Enter search term: ")
		term = readLine(reader)
	}
	if term == "" {
		ui.PrintError("Error: Search term cannot be empty")
		os.Exit(1)
	}

	max := maxImages
	if !cmd.Flags().Changed("max") {
		fmt.Printf("Enter maximum number of images to download (max %d): ", cfg.Download.MaxImagesCap)
		max = parseMaxImages(readLine(reader), cfg.Download.DefaultMaxImages, cfg.Download.MaxImagesCap)
	} else {
		max = clampMaxImages(max, cfg.Download.MaxImagesCap)
	}

	fmt.Printf("\nStarting download of up to %d images for '%s'\n", max, term)

	s := scraper.New(cfg)
	count, err := s.Run(term, max)
	if err != nil {
		logger.WithError(err).WithField("term", term).Error("Batch failed")
		ui.PrintError("Batch failed", err.Error())
		os.Exit(1)
	}

	fmt.Printf("\nFinished! Successfully downloaded %d images.\n", count)
	return nil
}
