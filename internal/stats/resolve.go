package stats

import (
	"strings"

	"github.com/ppiankov/geolore/internal/model"
	"github.com/ppiankov/geolore/internal/wikitext"
)

// Resolve turns an infobox body into at most maxStats stats, one per spec,
// considering specs in registry order.
func Resolve(body string, registry []StatSpec, maxStats int) []model.Stat {
	stats := []model.Stat{}
	if strings.TrimSpace(body) == "" || maxStats <= 0 {
		return stats
	}

	fields := wikitext.ExtractFieldMap(body)
	used := make(map[string]bool)

	for _, spec := range registry {
		if len(stats) >= maxStats {
			break
		}
		if spec.ID == "" || used[spec.ID] {
			continue
		}

		raw, ok := lookupRaw(body, fields, spec.Keys)
		if !ok {
			continue
		}
		cleaned, ok := wikitext.Sanitize(raw)
		if !ok {
			continue
		}

		stat, ok := buildStat(spec, cleaned)
		if !ok {
			continue
		}
		stats = append(stats, stat)
		used[spec.ID] = true
	}

	return stats
}

// lookupRaw returns the first non-blank value among keys, checking the field
// map before falling back to a direct scan of the body.
func lookupRaw(body string, fields wikitext.FieldMap, keys []string) (string, bool) {
	for _, k := range keys {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		if v, ok := fields[key]; ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		if v, ok := wikitext.ExtractParam(body, key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// buildStat applies id-specific formatting to a sanitized value
func buildStat(spec StatSpec, cleaned string) (model.Stat, bool) {
	var (
		value   string
		n       float64
		numeric bool
	)

	switch spec.ID {
	case IDPopulation:
		value, n, numeric = formatPopulation(cleaned)
	case IDArea:
		value, n, numeric = FormatArea(cleaned)
	case IDLength:
		value, n, numeric = FormatDistance(cleaned)
	default:
		value = cleaned
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return model.Stat{}, false
	}
	if numeric {
		return model.NumericStat(spec.ID, spec.Icon, spec.Label, value, n), true
	}
	return model.TextStat(spec.ID, spec.Icon, spec.Label, value), true
}

// formatPopulation keeps the first integer of a population value
func formatPopulation(cleaned string) (string, float64, bool) {
	grouped, ok := wikitext.SanitizeNumeric(cleaned)
	if !ok {
		return cleaned, 0, false
	}
	n, ok := wikitext.FirstInteger(grouped)
	if !ok {
		return grouped, 0, false
	}
	return grouped, float64(n), true
}
