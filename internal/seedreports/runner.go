package seedreports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rehound/rehound/pkg/logger"
)

// PercentageMultiplier converts ratios to percentages in final stats.
const PercentageMultiplier = 100

// Run executes the complete seeding pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting report seeder",
		logger.String("baseURL", config.BaseURL),
		logger.Int("reports", config.NumReports),
		logger.Int("workers", config.Workers),
		logger.Float64("pairRatio", config.PairRatio),
		logger.String("timeout", config.Timeout.String()))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	reports := generateReports(ctx, config, stats)

	if err := submitReports(ctx, config, reports, stats); err != nil {
		return fmt.Errorf("report submission failed: %w", err)
	}

	if err := logServiceStats(ctx, config); err != nil {
		logger.Get().Warn(ctx, "failed to read service stats", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// logServiceStats fetches /stats after seeding so the run log shows what
// the service ended up with.
func logServiceStats(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/stats")
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	logger.Get().Info(ctx, "service stats after seeding", logger.String("stats", string(body)))
	return nil
}

// displayFinalStats prints the final seeding statistics.
func displayFinalStats(stats *Stats) {
	var successRate, reportsPerSecond float64

	if stats.ReportsSubmitted > 0 {
		successRate = float64(stats.ReportsSuccessful) / float64(stats.ReportsSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		reportsPerSecond = float64(stats.ReportsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("reportsGenerated", stats.ReportsGenerated),
		logger.Int("reportsSubmitted", stats.ReportsSubmitted),
		logger.Int("reportsSuccessful", stats.ReportsSuccessful),
		logger.Int("reportsDuplicate", stats.ReportsDuplicate),
		logger.Int("reportsFailed", stats.ReportsFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("reportsPerSecond", reportsPerSecond))
}
