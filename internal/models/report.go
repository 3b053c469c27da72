package models

import "time"

// Report is the complete output structure
type Report struct {
	Tool        string             `json:"tool"`
	Version     string             `json:"version"`
	Timestamp   string             `json:"timestamp"`
	Metadata    Metadata           `json:"metadata"`
	Connections []ConnectionRecord `json:"connections"`
	Errors      []ErrorRecord      `json:"errors"`
	Summaries   []SummaryRecord    `json:"summaries"`
}

// Metadata contains report generation info
type Metadata struct {
	GeneratedAt      time.Time      `json:"generated_at"`
	RootDir          string         `json:"root_dir"`
	Strategy         SourceStrategy `json:"strategy"`
	FilesScanned     int            `json:"files_scanned"`
	TotalConnections int            `json:"total_connections"`
	SQLConnections   int            `json:"sql_connections"`
	ScanDuration     string         `json:"scan_duration"`
	Version          string         `json:"version"`
}
