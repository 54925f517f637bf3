package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"wikiscraper/pkg/ui"
)

// readLine reads one trimmed line of input; EOF yields an empty string
func readLine(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// parseMaxImages interprets user input for the image count. Non-numeric
// input falls back to defaultMax with a warning; numbers are clamped to
// [1, limit].
func parseMaxImages(input string, defaultMax, limit int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		ui.PrintWarning(fmt.Sprintf("Invalid input. Using default value of %d images.", defaultMax))
		return defaultMax
	}
	return clampMaxImages(n, limit)
}

// clampMaxImages clamps n to the inclusive range [1, limit]
func clampMaxImages(n, limit int) int {
	if n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}
