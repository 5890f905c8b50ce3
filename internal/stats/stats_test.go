package stats

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/geolore/internal/model"
)

const riverBody = `river
| name = Rhine
| length = {{convert|1233|km|mi}}
| discharge1_avg = 2,900 m3/s
| source1_location = [[Lake Toma]]
| mouth = [[North Sea]]
| basin_countries = [[Switzerland]], [[Germany]]
| population = {{citation needed}}`

func TestResolve_RiverInfobox(t *testing.T) {
	stats := Resolve(riverBody, DefaultRegistry(), 12)

	got := make(map[string]model.Stat)
	for _, s := range stats {
		got[s.ID] = s
	}

	if _, ok := got[IDPopulation]; ok {
		t.Error("Expected population to be skipped when it sanitizes to nothing")
	}

	length, ok := got[IDLength]
	if !ok {
		t.Fatal("Expected a length stat")
	}
	if length.Value != "1,233 km" {
		t.Errorf("Expected length \"1,233 km\", got %q", length.Value)
	}
	if !length.IsNumeric() || *length.Number != 1233 {
		t.Errorf("Expected numeric length 1233, got %+v", length)
	}

	if got["discharge"].Value != "2,900 m3/s" {
		t.Errorf("Unexpected discharge: %q", got["discharge"].Value)
	}
	if got["source"].Value != "Lake Toma" {
		t.Errorf("Unexpected source: %q", got["source"].Value)
	}
	if got["basin_countries"].Label != "Basin countries" {
		t.Errorf("Unexpected label: %q", got["basin_countries"].Label)
	}
	if got["mouth"].Kind != model.StatText {
		t.Errorf("Expected mouth to be a text stat, got %s", got["mouth"].Kind)
	}
}

func TestResolve_RegistryOrderAndLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("settlement\n")
	for _, spec := range DefaultRegistry() {
		fmt.Fprintf(&b, "| %s = value %s\n", spec.Keys[0], spec.ID)
	}
	body := b.String()

	for _, max := range []int{0, 1, 5, 12, 50} {
		stats := Resolve(body, DefaultRegistry(), max)

		want := max
		if want > len(DefaultRegistry()) {
			want = len(DefaultRegistry())
		}
		if len(stats) != want {
			t.Errorf("max=%d: expected %d stats, got %d", max, want, len(stats))
		}

		seen := make(map[string]bool)
		for i, s := range stats {
			if seen[s.ID] {
				t.Errorf("max=%d: duplicate stat id %q", max, s.ID)
			}
			seen[s.ID] = true
			if s.ID != DefaultRegistry()[i].ID {
				t.Errorf("max=%d: stat %d is %q, expected registry order %q", max, i, s.ID, DefaultRegistry()[i].ID)
			}
		}
	}
}

func TestResolve_DuplicateSpecIDsEmittedOnce(t *testing.T) {
	registry := []StatSpec{
		{ID: "capital", Keys: []string{"capital"}, Label: "Capital"},
		{ID: "capital", Keys: []string{"seat"}, Label: "Capital"},
	}
	stats := Resolve("country\n| capital = [[Paris]]\n| seat = Lyon", registry, 12)
	if len(stats) != 1 || stats[0].Value != "Paris" {
		t.Errorf("Expected a single Paris stat, got %+v", stats)
	}
}

func TestResolve_KeyPriorityAndBlankFallthrough(t *testing.T) {
	body := "settlement\n| population = \n| population_total = 114,394 (2020)\n| population_metro = 210,000"
	stats := Resolve(body, DefaultRegistry(), 12)
	if len(stats) == 0 || stats[0].ID != IDPopulation {
		t.Fatalf("Expected population first, got %+v", stats)
	}
	if stats[0].Value != "114,394" {
		t.Errorf("Expected population_total to win over blank population, got %q", stats[0].Value)
	}
}

func TestResolve_DirectScanFallback(t *testing.T) {
	// The field map keeps the first "area" line, which is blank; the direct
	// scan finds the later filled one.
	body := "settlement\n| area =\n| area = 605 km2"
	stats := Resolve(body, []StatSpec{{ID: IDArea, Keys: []string{"area"}, Label: "Area"}}, 12)
	if len(stats) != 1 {
		t.Fatalf("Expected one stat, got %d", len(stats))
	}
	if stats[0].Value != "605 km²" {
		t.Errorf("Expected \"605 km²\", got %q", stats[0].Value)
	}
}

func TestResolve_EmptyBody(t *testing.T) {
	if stats := Resolve("", DefaultRegistry(), 12); len(stats) != 0 {
		t.Errorf("Expected no stats, got %d", len(stats))
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format func(string) (string, float64, bool)
		in     string
		want   string
		ok     bool
	}{
		{"number grouping", FormatNumber, "1234567", "1,234,567", true},
		{"number fraction", FormatNumber, "1234.567", "1,234.57", true},
		{"number none", FormatNumber, "n/a", "n/a", false},
		{"area default unit", FormatArea, "7,692,024", "7,692,024 km²", true},
		{"area km2", FormatArea, "156.9 km2", "156.9 km²", true},
		{"area square miles", FormatArea, "1,000 sq mi", "1,000 mi²", true},
		{"area none", FormatArea, "vast", "vast", false},
		{"distance default unit", FormatDistance, "6650", "6,650 km", true},
		{"distance spelled km", FormatDistance, "6,650 kilometres", "6,650 km", true},
		{"distance miles", FormatDistance, "4,132 miles", "4,132 mi", true},
		{"distance metres", FormatDistance, "500 m", "500 m", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := tt.format(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("format(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLabelAndIcon(t *testing.T) {
	labels := map[string]string{
		"gdp":         "GDP",
		"leader_name": "Leader",
		"population":  "Population",
		"time_zone":   "Time Zone",
	}
	for id, want := range labels {
		if got := LabelFor(id); got != want {
			t.Errorf("LabelFor(%q) = %q, want %q", id, got, want)
		}
	}

	icons := map[string]string{
		"population": "👥",
		"timezone":   "🕒",
		"max_depth":  "⚓",
		"type":       "📍",
	}
	for id, want := range icons {
		if got := IconFor(id); got != want {
			t.Errorf("IconFor(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestDefaultRegistryIsACopy(t *testing.T) {
	r := DefaultRegistry()
	r[0].Keys[0] = "mutated"
	if DefaultRegistry()[0].Keys[0] == "mutated" {
		t.Error("Expected DefaultRegistry to return an independent copy")
	}
	if len(r) != 20 {
		t.Errorf("Expected 20 specs, got %d", len(r))
	}
}

func TestFallback(t *testing.T) {
	feature := model.Feature{
		Name: "Springfield",
		Properties: map[string]any{
			"POP_MAX":     float64(114394),
			"elevation_m": "",
			"ELEVFT":      "597",
			"founded":     "1821",
		},
	}

	stats := Fallback(feature, model.CategoryCity, 3)
	if len(stats) != 3 {
		t.Fatalf("Expected 3 stats, got %d: %+v", len(stats), stats)
	}
	if stats[0].ID != IDPopulation || stats[0].Value != "114,394" {
		t.Errorf("Unexpected population stat: %+v", stats[0])
	}
	if stats[1].ID != IDElevation || stats[1].Value != "597 ft" {
		t.Errorf("Unexpected elevation stat: %+v", stats[1])
	}
	if stats[2].ID != IDFounded || stats[2].Value != "1821" {
		t.Errorf("Unexpected founded stat: %+v", stats[2])
	}

	all := Fallback(feature, model.CategoryCity, 10)
	if last := all[len(all)-1]; last.ID != IDType || last.Value != "City" {
		t.Errorf("Expected trailing type stat, got %+v", last)
	}
}

func TestFallback_OnlyType(t *testing.T) {
	stats := Fallback(model.Feature{Name: "Nowhere"}, model.CategoryLake, 3)
	if len(stats) != 1 || stats[0].Value != "Lake" {
		t.Fatalf("Expected a lone type stat, got %+v", stats)
	}
	if Informative(stats) {
		t.Error("Expected a lone type stat to be non-informative")
	}
	if len(Fallback(model.Feature{}, model.CategoryDefault, 3)) != 0 {
		t.Error("Expected no stats for a bare default feature")
	}
}
