// Package logger provides the structured logging interface used by every
// gammascope component.
//
// It wraps zerolog with a small interface so components can take a Logger
// and tests can swap in NewNopLogger or the capturing NewTestLogger.
//
// Basic Usage:
//
//	err := logger.Initialize(&config.LoggingConfig{Level: "info"})
//
//	logger.Info("Fetch started")
//	logger.WithField("paint_seed", 305).Warn("Lookup failed")
//
// Component loggers carry their own fields:
//
//	log := logger.GetLogger().WithField("component", "ranker")
//	log.InfoWithFields("Scan finished", map[string]interface{}{
//	    "scored":   980,
//	    "duration": time.Since(start),
//	})
//
// Console output uses colored, abbreviated levels unless NoColor is set or
// Format is "json". When File is set, output goes to both console and file.
package logger
