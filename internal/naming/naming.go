// Package naming holds the identifier helpers shared by the type and client
// generators: sanitization of schema names into valid TypeScript identifiers,
// camel-casing of operation ids, tag stripping for accessor keys, and quoted
// pick lists for runtime parameter extraction.
package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	invalidIdent = regexp.MustCompile(`[^A-Za-z0-9_$]`)
	nonWordRun   = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// SanitizeIdentifier replaces every character that is not valid in a
// TypeScript identifier with an underscore, and prefixes an underscore when
// the name would start with a digit.
func SanitizeIdentifier(name string) string {
	out := invalidIdent.ReplaceAllString(name, "_")
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

// CamelCase collapses every run of non-word characters and upper-cases the
// character that follows it: "users.get-by_id" becomes "usersGetById". The
// leading segment keeps its original casing.
func CamelCase(name string) string {
	parts := nonWordRun.Split(name, -1)
	var b strings.Builder
	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first {
			b.WriteString(part)
			first = false
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// StripTag removes every case-insensitive occurrence of tag from name,
// preserving the casing of the remainder: ("usersGetById", "users") yields
// "GetById". When stripping would leave nothing the original name is kept.
func StripTag(name, tag string) string {
	if strings.TrimSpace(tag) == "" {
		return name
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(tag))
	out := re.ReplaceAllString(name, "")
	if out == "" {
		return name
	}
	return out
}

// EnumMemberName derives a TypeScript enum member name from a literal value:
// segments are title-cased and joined, invalid characters sanitized away.
func EnumMemberName(value string) string {
	parts := nonWordRun.Split(value, -1)
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(titleCaser.String(part))
	}
	return SanitizeIdentifier(b.String())
}

// PickList renders parameter names as a double-quoted, comma-separated
// argument list for the generated runtime pick helper.
func PickList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return strings.Join(quoted, ", ")
}
