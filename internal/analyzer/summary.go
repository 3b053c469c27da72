package analyzer

import (
	"sort"

	"github.com/ppiankov/xlspectre/internal/models"
)

// GroupBy selects the aggregation key for summary rows.
type GroupBy string

const (
	GroupByFolder         GroupBy = "folder"
	GroupByDatabase       GroupBy = "database"
	GroupByFolderDatabase GroupBy = "folder-database"
)

// ValidGroupBy reports whether value names a supported grouping.
func ValidGroupBy(value string) bool {
	switch GroupBy(value) {
	case GroupByFolder, GroupByDatabase, GroupByFolderDatabase:
		return true
	}
	return false
}

type summaryAccumulator struct {
	folder    string
	database  string
	total     int
	withSQL   int
	databases map[string]struct{}
}

// Summarize folds the complete record set into summary rows grouped by the
// requested key. It is a pure function of its input: identical record sets
// yield identical output regardless of input order.
func Summarize(records []models.ConnectionRecord, groupBy GroupBy) []models.SummaryRecord {
	groups := map[string]*summaryAccumulator{}

	for _, rec := range records {
		key, folder, database := groupKey(rec, groupBy)
		acc, ok := groups[key]
		if !ok {
			acc = &summaryAccumulator{
				folder:    folder,
				database:  database,
				databases: map[string]struct{}{},
			}
			groups[key] = acc
		}
		acc.total++
		if rec.HasSQL {
			acc.withSQL++
		}
		if rec.Database != "" {
			acc.databases[rec.Database] = struct{}{}
		}
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summaries := make([]models.SummaryRecord, 0, len(keys))
	for _, key := range keys {
		acc := groups[key]
		summaries = append(summaries, models.SummaryRecord{
			GroupKey:          key,
			Folder:            acc.folder,
			Database:          acc.database,
			TotalConnections:  acc.total,
			WithSQL:           acc.withSQL,
			WithoutSQL:        acc.total - acc.withSQL,
			DistinctDatabases: len(acc.databases),
		})
	}
	return summaries
}

func groupKey(rec models.ConnectionRecord, groupBy GroupBy) (key, folder, database string) {
	switch groupBy {
	case GroupByDatabase:
		return rec.Database, "", rec.Database
	case GroupByFolderDatabase:
		return rec.FolderName + "/" + rec.Database, rec.FolderName, rec.Database
	default:
		return rec.FolderName, rec.FolderName, ""
	}
}
