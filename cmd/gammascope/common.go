package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gammascope/pkg/auth"
	"gammascope/pkg/config"
	"gammascope/pkg/logger"
	"gammascope/pkg/metrics"
	"gammascope/pkg/ui"
)

// loadConfig merges the global flags into flags, loads the configuration
// and initializes the global logger from it
func loadConfig(flags map[string]interface{}) (*config.Config, error) {
	if flags == nil {
		flags = make(map[string]interface{})
	}
	switch {
	case verbose:
		flags["log-level"] = "debug"
	case quiet && logLevel == "":
		flags["log-level"] = "error"
	default:
		flags["log-level"] = logLevel
	}
	flags["log-file"] = logFile
	flags["no-color"] = noColor
	flags["metrics-textfile"] = metricsTextfile

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	// Console info logs would break the progress line
	if !verbose && logLevel == "" && cfg.Logging.File == "" {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug", "info":
			cfg.Logging.Level = "warn"
		}
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.WithField("version", version).Debug("gammascope starting")
	return cfg, nil
}

// signalContext is cancelled on Ctrl+C or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// resolveAPIKey fills cfg.API.APIKey from the credential store when the
// environment did not set it. A missing key is fine.
func resolveAPIKey(cfg *config.Config) {
	if cfg.API.APIKey != "" {
		return
	}
	manager, err := auth.NewManager()
	if err != nil {
		logger.WithError(err).Debug("Credential store unavailable")
		return
	}
	cfg.API.APIKey = manager.APIKey(cfg.API.Profile)
	if cfg.API.APIKey != "" {
		logger.WithField("profile", cfg.API.Profile).Debug("Using stored API key")
	}
}

// finishBatch records the command duration, writes the metrics textfile and
// sends the desktop notification when enabled
func finishBatch(cfg *config.Config, m *metrics.Metrics, command string, start time.Time, runErr error) {
	m.Duration(command, time.Since(start).Seconds())
	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.WithError(err).WithField("path", cfg.Metrics.Textfile).Warn("Failed to write metrics textfile")
	}

	if !notifications {
		return
	}
	notifier := ui.NewNotifier()
	if !notifier.Enabled() {
		return
	}
	title := "gammascope " + command
	var err error
	if runErr != nil {
		err = notifier.SendError(title, runErr.Error())
	} else {
		err = notifier.SendSuccess(title, "Finished in "+time.Since(start).Round(time.Second).String())
	}
	if err != nil {
		logger.WithError(err).Debug("Desktop notification failed")
	}
}
