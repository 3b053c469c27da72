package models

// SourceStrategy identifies which extraction path produced a record.
type SourceStrategy string

const (
	// StrategyArchive reads xl/connections.xml straight out of the workbook archive.
	StrategyArchive SourceStrategy = "archive"
	// StrategyLive enumerates connections through a running Excel instance.
	StrategyLive SourceStrategy = "live-application"
)

// Stage identifies where in the extraction pipeline a failure occurred.
type Stage string

const (
	StageOpen           Stage = "open"
	StageParse          Stage = "parse"
	StageConnectionRead Stage = "connection-read"
)

// RawConnection is a strategy-agnostic connection entry before normalization.
// Both extraction strategies produce this shape.
type RawConnection struct {
	Name             string
	ConnectionString string
	CommandText      string
	CommandType      string
	SourceFile       string // data-source indicator when exposed separately from the connection string
	Strategy         SourceStrategy
}

// ConnectionRecord is one extracted and classified workbook connection.
type ConnectionRecord struct {
	FolderName     string         `json:"folder_name"`
	FileName       string         `json:"file_name"`
	ConnectionName string         `json:"connection_name"`
	Database       string         `json:"database,omitempty"`
	TableName      string         `json:"table_name,omitempty"`
	SQLQuery       string         `json:"sql_query,omitempty"`
	HasSQL         bool           `json:"has_sql"`
	SourceStrategy SourceStrategy `json:"source_strategy"`
}

// ErrorRecord captures a recoverable extraction failure for one file or
// one connection within a file.
type ErrorRecord struct {
	FileName string `json:"file_name"`
	Stage    Stage  `json:"stage"`
	Message  string `json:"message"`
}

// SummaryRecord holds derived counts for one aggregation group.
type SummaryRecord struct {
	GroupKey          string `json:"group_key"`
	Folder            string `json:"folder,omitempty"`
	Database          string `json:"database,omitempty"`
	TotalConnections  int    `json:"total_connections"`
	WithSQL           int    `json:"with_sql"`
	WithoutSQL        int    `json:"without_sql"`
	DistinctDatabases int    `json:"distinct_databases"`
}
