// Package analyzer normalizes raw connection entries into classified
// connection records and aggregates them into summary rows.
package analyzer

import (
	"github.com/ppiankov/xlspectre/internal/classifier"
	"github.com/ppiankov/xlspectre/internal/models"
)

// Normalize maps one raw entry, from either extraction strategy, into the
// canonical record shape. Field extraction is best effort: when no known
// connection-string convention matches, fields stay empty.
//
// Classification happens here, at record creation; records are immutable
// afterwards.
func Normalize(folderName, fileName string, raw models.RawConnection) models.ConnectionRecord {
	params := ParseConnectionString(raw.ConnectionString)
	provider := ProviderFromParams(params)

	dataSource := raw.SourceFile
	if dataSource == "" {
		dataSource = DataSourceFromParams(params)
	}

	database := DatabaseFromParams(provider, params)
	table := TableFromCommand(raw.CommandText)
	if table != "" {
		if qualifier, name := SplitQualifiedName(table); name != "" {
			table = name
			if database == "" {
				database = qualifier
			}
		}
	}

	return models.ConnectionRecord{
		FolderName:     folderName,
		FileName:       fileName,
		ConnectionName: raw.Name,
		Database:       database,
		TableName:      table,
		SQLQuery:       raw.CommandText,
		HasSQL: classifier.HasSQL(classifier.Input{
			Provider:    provider,
			DataSource:  dataSource,
			CommandText: raw.CommandText,
		}),
		SourceStrategy: raw.Strategy,
	}
}
