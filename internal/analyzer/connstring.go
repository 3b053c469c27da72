package analyzer

import "strings"

// Connection-string key conventions are provider dependent. Lookup is by
// normalized provider identifier; unknown providers fall back to the default
// key list. Extend this table rather than adding ad hoc parsing.
var databaseKeysByProvider = map[string][]string{
	"sqloledb":               {"initial catalog", "database"},
	"msoledbsql":             {"initial catalog", "database"},
	"sqlncli":                {"initial catalog", "database"},
	"sqlncli11":              {"initial catalog", "database"},
	"microsoft.mashup.oledb": {"initial catalog"},
	"msdasql":                {"database", "dbq"},
	"ibmdadb2":               {"database"},
	"oraoledb.oracle":        {"data source"},
}

var defaultDatabaseKeys = []string{"initial catalog", "database", "dbq"}

// Keys that expose the data-source indicator (server, file, or the workbook
// self-reference marker) outside of any provider-specific convention.
var dataSourceKeys = []string{"data source", "location", "server"}

// ParseConnectionString splits a semicolon separated connection string into
// lower-cased key/value pairs. Segments without '=' are ignored.
func ParseConnectionString(connStr string) map[string]string {
	params := map[string]string{}
	if connStr == "" {
		return params
	}
	for _, part := range strings.Split(connStr, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		params[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return params
}

// ProviderFromParams returns the provider identifier, or "" when absent.
func ProviderFromParams(params map[string]string) string {
	return params["provider"]
}

// DatabaseFromParams extracts the target database/catalog name using the key
// conventions registered for the given provider. Absence of a recognizable
// key yields "", never an error.
func DatabaseFromParams(provider string, params map[string]string) string {
	for _, key := range databaseKeys(provider) {
		if value := params[key]; value != "" {
			return value
		}
	}
	return ""
}

// DataSourceFromParams extracts the data-source indicator from a parsed
// connection string.
func DataSourceFromParams(params map[string]string) string {
	for _, key := range dataSourceKeys {
		if value := params[key]; value != "" {
			return value
		}
	}
	return ""
}

func databaseKeys(provider string) []string {
	normalized := normalizeProvider(provider)
	if keys, ok := databaseKeysByProvider[normalized]; ok {
		return keys
	}
	return defaultDatabaseKeys
}

// normalizeProvider lower-cases the identifier and strips a trailing numeric
// version segment, so "Microsoft.Mashup.OleDb.1" and ".2" share one entry.
func normalizeProvider(provider string) string {
	normalized := strings.ToLower(strings.TrimSpace(provider))
	if idx := strings.LastIndex(normalized, "."); idx > 0 {
		if suffix := normalized[idx+1:]; suffix != "" && isDigits(suffix) {
			return normalized[:idx]
		}
	}
	return normalized
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
