package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/rehound/rehound/internal/seedreports"
)

// Default configuration constants.
const (
	defaultNumReports = 1000
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
	defaultCenterLat  = 18.7883
	defaultCenterLng  = 98.9853
	defaultSpreadKM   = 25.0
	defaultPairRatio  = 0.2
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numReports = flag.Int("reports", defaultNumReports, "Number of reports to generate and submit")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		centerLat  = flag.Float64("lat", defaultCenterLat, "Center latitude for generated locations")
		centerLng  = flag.Float64("lng", defaultCenterLng, "Center longitude for generated locations")
		spreadKM   = flag.Float64("spread", defaultSpreadKM, "Scatter radius in kilometers")
		pairRatio  = flag.Float64("pairs", defaultPairRatio, "Fraction of reports generated as crossing pairs")
		logFile    = flag.String("log", "", "Log file for seeder output (default: seed_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedreports.ShowHelp()
		return
	}

	if err := seedreports.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seedreports.Config{
		BaseURL:    *baseURL,
		NumReports: *numReports,
		Workers:    *workers,
		Timeout:    *timeout,
		CenterLat:  *centerLat,
		CenterLng:  *centerLng,
		SpreadKM:   *spreadKM,
		PairRatio:  *pairRatio,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := seedreports.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		return
	}
}
