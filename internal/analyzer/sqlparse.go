package analyzer

import (
	"regexp"
	"strings"
)

var (
	// A command consisting of a single (possibly quoted, possibly dotted)
	// identifier is a direct table reference, not a query.
	bareIdentifierPattern = regexp.MustCompile("^[\\[\\]`\"a-zA-Z0-9_.]+$")
	selectKeywordPattern  = regexp.MustCompile(`(?i)\bselect\b`)

	// First table after FROM; handles [..], ".." and `..` quoting plus dotted names.
	fromTargetPattern = regexp.MustCompile("(?is)\\bfrom\\b\\s+((?:\\[[^\\]]+\\](?:\\.\\[[^\\]]+\\])*)|(?:\"[^\"]+\"(?:\\.\"[^\"]+\")*)|(?:`[^`]+`(?:\\.`[^`]+`)*)|(?:[a-zA-Z0-9_$.]+))")
)

// TableFromCommand best-effort extracts the primary table reference from a
// connection's command text. Returns "" when nothing recognizable is found.
func TableFromCommand(command string) string {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return ""
	}

	if bareIdentifierPattern.MatchString(trimmed) && !selectKeywordPattern.MatchString(trimmed) {
		return trimmed
	}

	m := fromTargetPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return ""
	}

	// Stop at trailing punctuation an alias or clause may have attached.
	target := m[1]
	if idx := strings.IndexAny(target, " \t\r\n;,"); idx >= 0 {
		target = target[:idx]
	}
	return target
}

// SplitQualifiedName splits a possibly quoted, dotted identifier into its
// qualifier (schema or database) and object name. Single-part names return
// an empty qualifier.
func SplitQualifiedName(identifier string) (qualifier string, name string) {
	parts := splitIdentifierParts(identifier)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return parts[len(parts)-2], parts[len(parts)-1]
	}
}

func splitIdentifierParts(identifier string) []string {
	var parts []string
	for _, part := range strings.Split(identifier, ".") {
		cleaned := strings.Trim(strings.TrimSpace(part), "[]\"`")
		if cleaned == "" {
			continue
		}
		parts = append(parts, cleaned)
	}
	return parts
}
