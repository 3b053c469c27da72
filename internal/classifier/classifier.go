package classifier

import "strings"

const (
	// SelfReferenceMarker is the literal data-source value Excel uses when a
	// connection reads from the workbook itself rather than an external source.
	SelfReferenceMarker = "$Workbook$"

	// mashupProviderPrefix matches the Power Query / data-mashup OLE DB
	// provider family (Microsoft.Mashup.OleDb.1 and versioned siblings).
	mashupProviderPrefix = "microsoft.mashup."
)

// Input carries the only fields the classification is allowed to depend on.
type Input struct {
	Provider    string
	DataSource  string
	CommandText string
}

// HasSQL reports whether the captured command text represents an externally
// executable SQL statement, as opposed to an internal data-shaping source.
//
// The marker checks take precedence over command text: mashup connections
// frequently embed text that superficially resembles SQL but is only a
// reference into the workbook's own transformation pipeline.
func HasSQL(in Input) bool {
	if IsSelfReference(in.DataSource) {
		return false
	}
	if IsMashupProvider(in.Provider) {
		return false
	}
	return strings.TrimSpace(in.CommandText) != ""
}

// IsSelfReference reports whether dataSource is the workbook self-reference marker.
func IsSelfReference(dataSource string) bool {
	return strings.EqualFold(strings.TrimSpace(dataSource), SelfReferenceMarker)
}

// IsMashupProvider reports whether provider belongs to the data-mashup provider family.
func IsMashupProvider(provider string) bool {
	normalized := strings.ToLower(strings.TrimSpace(provider))
	return strings.HasPrefix(normalized, mashupProviderPrefix)
}
