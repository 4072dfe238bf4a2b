package seedreports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTP status code constants.
const (
	statusOK      = 200
	statusCreated = 201
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// submitReports submits reports concurrently using a worker pool.
func submitReports(ctx context.Context, config *Config, reports []Report, stats *Stats) error {
	log.Printf("submitting %d reports with %d workers...", len(reports), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/reports"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	reportChan := make(chan Report, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for report := range reportChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleReport(ctx, client, url, report)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if config.Verbose {
						log.Printf("progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
							atomic.LoadInt64(&submitted), len(reports),
							atomic.LoadInt64(&successful),
							atomic.LoadInt64(&duplicate),
							atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(reportChan)
		for _, report := range reports {
			select {
			case <-ctx.Done():
				return
			case reportChan <- report:
			}
		}
	}()

	wg.Wait()

	stats.ReportsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ReportsSuccessful = int(atomic.LoadInt64(&successful))
	stats.ReportsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.ReportsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("report submission completed: success %d, duplicate %d, failed %d",
		stats.ReportsSuccessful, stats.ReportsDuplicate, stats.ReportsFailed)

	return nil
}

// submitSingleReport submits a single report and returns the result.
func submitSingleReport(ctx context.Context, client *HTTPClient, url string, report Report) string {
	resp, err := client.Post(ctx, url, report)
	if err != nil {
		return "failed"
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case statusCreated:
		return "success"
	case statusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
