package analyzer

import "testing"

func TestParseConnectionString(t *testing.T) {
	params := ParseConnectionString("Provider=SQLOLEDB;Data Source=srv01;Initial Catalog=Sales;Integrated Security=SSPI;")

	if got := params["provider"]; got != "SQLOLEDB" {
		t.Fatalf("expected provider SQLOLEDB, got %q", got)
	}
	if got := params["data source"]; got != "srv01" {
		t.Fatalf("expected data source srv01, got %q", got)
	}
	if got := params["initial catalog"]; got != "Sales" {
		t.Fatalf("expected initial catalog Sales, got %q", got)
	}
}

func TestParseConnectionStringEmptyAndMalformed(t *testing.T) {
	if got := len(ParseConnectionString("")); got != 0 {
		t.Fatalf("expected no params for empty string, got %d", got)
	}

	params := ParseConnectionString(";;no-equals-here;Key=Value")
	if len(params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(params))
	}
	if got := params["key"]; got != "Value" {
		t.Fatalf("expected key=Value, got %q", got)
	}
}

func TestParseConnectionStringValueWithEquals(t *testing.T) {
	params := ParseConnectionString("Extended Properties=foo=bar")
	if got := params["extended properties"]; got != "foo=bar" {
		t.Fatalf("expected value split on first '=' only, got %q", got)
	}
}

func TestDatabaseFromParams(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		connStr  string
		want     string
	}{
		{
			name:     "sqloledb_initial_catalog",
			provider: "SQLOLEDB",
			connStr:  "Provider=SQLOLEDB;Initial Catalog=Sales",
			want:     "Sales",
		},
		{
			name:     "sqloledb_prefers_initial_catalog",
			provider: "SQLOLEDB",
			connStr:  "Initial Catalog=Sales;Database=Other",
			want:     "Sales",
		},
		{
			name:     "unknown_provider_default_keys",
			provider: "Some.Exotic.Provider",
			connStr:  "Database=Warehouse",
			want:     "Warehouse",
		},
		{
			name:     "odbc_dbq",
			provider: "",
			connStr:  "DBQ=C:\\data\\archive.mdb",
			want:     "C:\\data\\archive.mdb",
		},
		{
			name:     "no_recognizable_key",
			provider: "SQLOLEDB",
			connStr:  "Data Source=srv01;Integrated Security=SSPI",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ParseConnectionString(tt.connStr)
			if got := DatabaseFromParams(tt.provider, params); got != tt.want {
				t.Fatalf("DatabaseFromParams(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}

func TestNormalizeProviderStripsVersionSuffix(t *testing.T) {
	if got := normalizeProvider("Microsoft.Mashup.OleDb.1"); got != "microsoft.mashup.oledb" {
		t.Fatalf("expected version suffix stripped, got %q", got)
	}
	if got := normalizeProvider("OraOLEDB.Oracle"); got != "oraoledb.oracle" {
		t.Fatalf("expected non-numeric suffix kept, got %q", got)
	}
}

func TestDataSourceFromParams(t *testing.T) {
	params := ParseConnectionString("Provider=Microsoft.Mashup.OleDb.1;Data Source=$Workbook$;Location=Query1")
	if got := DataSourceFromParams(params); got != "$Workbook$" {
		t.Fatalf("expected $Workbook$, got %q", got)
	}
}
