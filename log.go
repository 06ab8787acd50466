package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// setupLog configures the global logger. By default logs are discarded; set
// AUDIBLEZ_LOG to a file path to capture them, and AUDIBLEZ_DEBUG=1 for
// debug level. The returned closer flushes the log file.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	if os.Getenv("AUDIBLEZ_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	logFile := os.Getenv("AUDIBLEZ_LOG")
	if logFile == "" {
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error setting up log file: %w", err)
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
