package stats

import (
	"regexp"

	"github.com/ppiankov/geolore/internal/model"
)

// Geometry property keys probed for each fallback stat
var (
	populationProps = []string{"POP_EST", "POP_MAX", "pop_est", "population", "population_total", "POPULATION"}
	areaProps       = []string{"AREA_KM2", "AREA", "area", "AREA_SQKM", "area_km2"}
	elevationProps  = []string{"elevation", "ELEVATION", "elev_m", "ELEV_M", "elevation_m", "ELEVFT", "elevation_ft"}
	foundedProps    = []string{"founded", "inception", "established", "established_year", "formation", "start_date", "INCORPORAT"}
	lengthProps     = []string{"length_km", "LENGTH_KM", "LENGTH", "length", "len_km", "LEN_KM"}

	feetKeyRe   = regexp.MustCompile(`(?i)^(elevft|elevation_ft)$`)
	metresKeyRe = regexp.MustCompile(`(?i)^(elev_m|elevation_m)$`)
	hasUnitRe   = regexp.MustCompile(`(?i)\d.*\b(m|meters?|metres?|ft|feet)\b`)
)

// Fallback builds stats straight from a feature's geometry properties, for
// features no article could be matched to. The category's type word is
// appended last when there is room.
func Fallback(feature model.Feature, category model.Category, maxStats int) []model.Stat {
	stats := []model.Stat{}
	push := func(s model.Stat) {
		if len(stats) < maxStats && s.Value != "" {
			stats = append(stats, s)
		}
	}

	if v, ok := feature.Property(populationProps...); ok {
		push(numericOrText(IDPopulation, v, FormatNumber))
	}
	if v, ok := feature.Property(areaProps...); ok {
		push(numericOrText(IDArea, v, FormatArea))
	}
	if key, ok := feature.PropertyKey(elevationProps...); ok {
		v, _ := feature.Property(key)
		push(elevationStat(key, v))
	}
	if v, ok := feature.Property(foundedProps...); ok {
		push(model.TextStat(IDFounded, IconFor(IDFounded), LabelFor(IDFounded), v))
	}
	if v, ok := feature.Property(lengthProps...); ok {
		push(numericOrText(IDLength, v, FormatDistance))
	}
	if w := category.TypeWord(); w != "" {
		push(model.TextStat(IDType, IconFor(IDType), LabelFor(IDType), w))
	}

	return stats
}

// Informative reports whether fallback stats say more than the feature's type
func Informative(stats []model.Stat) bool {
	if len(stats) == 0 {
		return false
	}
	return !(len(stats) == 1 && stats[0].ID == IDType)
}

func numericOrText(id, raw string, format func(string) (string, float64, bool)) model.Stat {
	value, n, ok := format(raw)
	if !ok {
		return model.TextStat(id, IconFor(id), LabelFor(id), raw)
	}
	return model.NumericStat(id, IconFor(id), LabelFor(id), value, n)
}

// elevationStat appends the unit implied by the property name when the value has none
func elevationStat(key, raw string) model.Stat {
	if hasUnitRe.MatchString(raw) {
		return model.TextStat(IDElevation, IconFor(IDElevation), LabelFor(IDElevation), raw)
	}
	value, n, ok := FormatNumber(raw)
	if !ok {
		return model.TextStat(IDElevation, IconFor(IDElevation), LabelFor(IDElevation), raw)
	}
	switch {
	case feetKeyRe.MatchString(key):
		value += " ft"
	case metresKeyRe.MatchString(key):
		value += " m"
	}
	return model.NumericStat(IDElevation, IconFor(IDElevation), LabelFor(IDElevation), value, n)
}
