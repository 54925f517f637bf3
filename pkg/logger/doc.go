// Package logger provides a structured logging interface for wikiscraper.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with
// support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output
// - Optional file output
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "wikiscraper/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Application started")
//	logger.WithField("term", "lighthouse").Info("Search started")
//	logger.WithError(err).Error("Failed to download image")
//
// For tests, NewTestLogger returns an implementation that captures
// messages instead of emitting them.
package logger
