// Package stats resolves infobox fields into labelled, display-ready statistics.
package stats

import "strings"

// StatSpec declares one statistic: the infobox keys that may carry it, in
// priority order, and how to present it.
type StatSpec struct {
	ID    string
	Keys  []string
	Label string
	Icon  string
}

// Stat identifiers with dedicated formatting
const (
	IDPopulation = "population"
	IDArea       = "area"
	IDElevation  = "elevation"
	IDFounded    = "founded"
	IDLength     = "length"
	IDType       = "type"
)

var defaultRegistry = buildRegistry([]struct {
	id   string
	keys []string
}{
	{IDPopulation, []string{"population", "population_total", "population_estimate", "population_est", "population_urban", "population_metro"}},
	{IDArea, []string{"area", "area_km2", "area_total", "area_total_km2", "area_total_km", "surface_area"}},
	{IDElevation, []string{"elevation", "elevation_m", "elevation_ft", "elevation_max_m", "elevation_max"}},
	{IDFounded, []string{"founded", "established", "established_date", "established_title", "inception", "formed"}},
	{"density", []string{"population_density_km2", "population_density", "density_km2", "density"}},
	{"timezone", []string{"timezone", "time_zone", "utc_offset", "utc_offset1"}},
	{"capital", []string{"capital", "capital_city"}},
	{"gdp", []string{"gdp", "gdp_nominal", "gdp_nominal_total", "gdp_ppp", "gdp_ppp_total"}},
	{"currency", []string{"currency", "currency_code"}},
	{"languages", []string{"official_languages", "official_language", "languages", "language"}},
	{"leader_name", []string{"leader_name", "leader", "leader_title", "leader_name1", "president", "prime_minister", "governor"}},
	{"driving_side", []string{"driving_side"}},
	{IDLength, []string{"length", "length_km"}},
	{"discharge", []string{"discharge", "discharge_avg", "discharge1_avg", "avg_discharge"}},
	{"max_depth", []string{"max_depth", "max_depth_m", "depth_max", "depth_max_m"}},
	{"basin_countries", []string{"basin_countries", "basin_countries1", "basin_countries2"}},
	{"source", []string{"source", "source1_location", "source_location", "source1"}},
	{"mouth", []string{"mouth", "mouth_location", "mouth1_location"}},
	{"volume", []string{"volume", "volume_km3"}},
	{"salinity", []string{"salinity"}},
})

func buildRegistry(entries []struct {
	id   string
	keys []string
}) []StatSpec {
	out := make([]StatSpec, 0, len(entries))
	for _, e := range entries {
		out = append(out, StatSpec{ID: e.id, Keys: e.keys, Label: LabelFor(e.id), Icon: IconFor(e.id)})
	}
	return out
}

// DefaultRegistry returns a copy of the built-in stat specs in display priority order
func DefaultRegistry() []StatSpec {
	out := make([]StatSpec, len(defaultRegistry))
	for i, s := range defaultRegistry {
		s.Keys = append([]string(nil), s.Keys...)
		out[i] = s
	}
	return out
}

var specialLabels = map[string]string{
	"gdp":             "GDP",
	"leader_name":     "Leader",
	"max_depth":       "Max depth",
	"basin_countries": "Basin countries",
	"driving_side":    "Driving side",
}

// LabelFor returns the display label for a stat id
func LabelFor(id string) string {
	k := strings.ToLower(id)
	if l, ok := specialLabels[k]; ok {
		return l
	}
	words := strings.Fields(strings.ReplaceAll(k, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// iconRules is checked in order; the first substring hit wins
var iconRules = []struct {
	substrings []string
	icon       string
}{
	{[]string{"population"}, "👥"},
	{[]string{"gdp"}, "💰"},
	{[]string{"capital"}, "🏛️"},
	{[]string{"currency"}, "💱"},
	{[]string{"language"}, "🗣️"},
	{[]string{"timezone", "utc"}, "🕒"},
	{[]string{"founded", "established", "inception"}, "📅"},
	{[]string{"area"}, "📐"},
	{[]string{"elevation", "height"}, "⛰️"},
	{[]string{"depth"}, "⚓"},
	{[]string{"density"}, "🧮"},
	{[]string{"discharge", "flow"}, "💧"},
	{[]string{"basin"}, "🗺️"},
	{[]string{"source", "mouth"}, "🌊"},
	{[]string{"volume"}, "🧊"},
	{[]string{"salinity"}, "🧂"},
	{[]string{"driving"}, "🚗"},
	{[]string{"leader"}, "👤"},
	{[]string{"length"}, "📏"},
}

// IconFor returns the glyph shown next to a stat id
func IconFor(id string) string {
	k := strings.ToLower(id)
	for _, rule := range iconRules {
		for _, sub := range rule.substrings {
			if strings.Contains(k, sub) {
				return rule.icon
			}
		}
	}
	if k == "coordinates" || strings.Contains(k, "lat") || strings.Contains(k, "lon") {
		return "🗺️"
	}
	return "📍"
}
