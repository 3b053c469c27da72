package config

import (
	"path"
	"strings"
)

// Normalize trims config patterns and removes empty values.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.ExcludeFolders = normalizePatterns(c.ExcludeFolders)
	c.ExcludeFiles = normalizePatterns(c.ExcludeFiles)
	c.ExcludeDatabases = normalizePatterns(c.ExcludeDatabases)
}

// IsFolderExcluded reports whether a folder (relative to the scan root)
// matches the exclude-folder patterns.
func (c *Config) IsFolderExcluded(folder string) bool {
	return matchesAny(c.folderPatterns(), folder)
}

// IsFileExcluded reports whether a workbook file name matches the
// exclude-file patterns.
func (c *Config) IsFileExcluded(fileName string) bool {
	return matchesAny(c.filePatterns(), fileName)
}

// IsDatabaseExcluded reports whether database matches exclude patterns.
func (c *Config) IsDatabaseExcluded(database string) bool {
	return matchesAny(c.databasePatterns(), database)
}

func (c *Config) folderPatterns() []string {
	if c == nil {
		return nil
	}
	return c.ExcludeFolders
}

func (c *Config) filePatterns() []string {
	if c == nil {
		return nil
	}
	return c.ExcludeFiles
}

func (c *Config) databasePatterns() []string {
	if c == nil {
		return nil
	}
	return c.ExcludeDatabases
}

func matchesAny(patterns []string, value string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalized := normalizePattern(value)
	if normalized == "" {
		return false
	}

	for _, pattern := range patterns {
		if patternMatches(pattern, normalized) {
			return true
		}
	}
	return false
}

func normalizePatterns(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, pattern := range values {
		p := normalizePattern(pattern)
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return normalized
}

func normalizePattern(value string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(value, "\\", "/")))
}

func patternMatches(pattern, value string) bool {
	normalizedPattern := normalizePattern(pattern)
	normalizedValue := normalizePattern(value)
	if normalizedPattern == "" || normalizedValue == "" {
		return false
	}

	// Invalid glob patterns are treated as exact matches.
	matched, err := path.Match(normalizedPattern, normalizedValue)
	if err == nil {
		return matched
	}
	return normalizedPattern == normalizedValue
}
