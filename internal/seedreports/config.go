package seedreports

import "time"

// Config holds configuration for the report seeder.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumReports int           // Number of reports to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	CenterLat  float64       // Latitude the reports scatter around
	CenterLng  float64       // Longitude the reports scatter around
	SpreadKM   float64       // Approximate scatter radius in kilometers
	PairRatio  float64       // Fraction of reports generated as crossing lost/found pairs
	LogFile    string        // Log file for seeder output
	Verbose    bool          // Enable verbose logging
}

// Report represents a report submission payload.
type Report struct {
	Kind         string  `json:"kind"`
	Breed        string  `json:"breed"`
	Color        string  `json:"color"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	OwnerUserID  string  `json:"owner_user_id,omitempty"`
	AnchorDate   string  `json:"anchor_date"`
	Description  string  `json:"description,omitempty"`
	SubmissionID string  `json:"submission_id"`
}

// AckResponse represents the duplicate acknowledgement from submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds seeder statistics.
type Stats struct {
	ReportsGenerated  int
	ReportsSubmitted  int
	ReportsSuccessful int
	ReportsDuplicate  int
	ReportsFailed     int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
