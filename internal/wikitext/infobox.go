package wikitext

import (
	"regexp"
	"strings"
)

// FieldMap maps lowercase infobox keys to their raw, unparsed values
type FieldMap map[string]string

var (
	infoboxOpenRe = regexp.MustCompile(`(?i)\{\{infobox`)
	fieldLineRe   = regexp.MustCompile(`^\|\s*([^=|]+?)\s*=\s*(.*)$`)
	fieldAnyRe    = regexp.MustCompile(`\|\s*([^=|]+?)\s*=\s*([^|\n]+)`)
)

const infoboxToken = "{{infobox"

// ExtractInfobox returns the body of the first infobox template in markup:
// everything between "{{infobox" and its balanced closing braces, trimmed.
// It reports false when there is no infobox or it never closes.
func ExtractInfobox(markup string) (string, bool) {
	loc := infoboxOpenRe.FindStringIndex(markup)
	if loc == nil {
		return "", false
	}
	start := loc[0]

	depth := 2
	for pos := start + 2; pos < len(markup)-1; {
		switch {
		case markup[pos] == '{' && markup[pos+1] == '{':
			depth += 2
			pos += 2
		case markup[pos] == '}' && markup[pos+1] == '}':
			depth -= 2
			if depth == 0 {
				return strings.TrimSpace(markup[start+len(infoboxToken) : pos]), true
			}
			pos += 2
		default:
			pos++
		}
	}
	return "", false
}

// ExtractFieldMap parses "| key = value" pairs out of an infobox body.
//
// Lines are scanned first; a line that is neither a new field nor a closing
// brace continues the previous field's value. The first occurrence of a key
// wins. A second pass over the whole text fills in keys the line scan missed
// (several fields on one line, for instance) without overwriting anything.
func ExtractFieldMap(body string) FieldMap {
	out := make(FieldMap)
	current := ""
	shadowed := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := fieldLineRe.FindStringSubmatch(trimmed); m != nil {
			key := strings.ToLower(strings.TrimSpace(m[1]))
			if key == "" {
				current = ""
				continue
			}
			current = key
			if _, exists := out[key]; exists {
				shadowed = true
				continue
			}
			shadowed = false
			out[key] = strings.TrimSpace(m[2])
			continue
		}
		if current == "" || trimmed == "" || strings.HasPrefix(trimmed, "|") || strings.HasPrefix(trimmed, "}}") {
			continue
		}
		if shadowed {
			continue
		}
		if out[current] == "" {
			out[current] = trimmed
		} else {
			out[current] += " " + trimmed
		}
	}

	for _, m := range fieldAnyRe.FindAllStringSubmatch(body, -1) {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])
		if key == "" || value == "" {
			continue
		}
		if _, exists := out[key]; !exists {
			out[key] = value
		}
	}

	return out
}

// ExtractParam looks up a single key directly in an infobox body. It only
// sees the rest of the key's own line.
func ExtractParam(body, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if body == "" || key == "" {
		return "", false
	}
	re, err := regexp.Compile(`(?i)\|\s*` + regexp.QuoteMeta(key) + `\s*=\s*([^|\n\r]+)`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// InfoboxType returns the template kind named on the first line of an
// infobox body ("settlement", "river", ...), lowercased.
func InfoboxType(body string) string {
	first := body
	if i := strings.IndexAny(first, "\n|"); i >= 0 {
		first = first[:i]
	}
	return strings.ToLower(strings.Join(strings.Fields(first), " "))
}
