package seedreports

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rehound/rehound/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the report seeder.
func ShowHelp() {
	os.Stdout.WriteString(`Rehound Report Seeder
=====================

A concurrent tool for loading the report service with realistic lost and
found dog reports, including crossing pairs the matcher should find.

Usage:
  go run cmd/seed-reports/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -reports int
        Number of reports to generate and submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -lat float
        Center latitude for generated locations (default 18.7883)
  -lng float
        Center longitude for generated locations (default 98.9853)
  -spread float
        Scatter radius in kilometers (default 25)
  -pairs float
        Fraction of reports generated as crossing lost/found pairs (default 0.2)
  -log string
        Log file for seeder output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with defaults
  go run cmd/seed-reports/main.go

  # Seed a bigger town with more crossing pairs
  go run cmd/seed-reports/main.go -reports 10000 -pairs 0.4 -workers 16
`)
}
