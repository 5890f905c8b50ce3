package wikitext

import (
	"strings"
	"testing"
)

const springfieldMarkup = `{{Short description|City in Illinois}}
{{Infobox settlement
| name = Springfield
| settlement_type = [[City]]
| population_total = {{nowrap|114,394}}
| area_total_km2 = {{convert|156.9|km2|sqmi}}
| leader_name = Misty
  Buscher
}}
'''Springfield''' is the capital city of [[Illinois]].`

func TestExtractInfobox_NestedTemplates(t *testing.T) {
	body, ok := ExtractInfobox(springfieldMarkup)
	if !ok {
		t.Fatal("Expected infobox to be found")
	}

	if !strings.HasPrefix(body, "settlement") {
		t.Errorf("Expected body to start after the infobox token, got %q", body[:20])
	}
	if strings.Contains(body, "Short description") || strings.Contains(body, "capital city") {
		t.Error("Expected body to exclude text outside the infobox")
	}

	opens := strings.Count(body, "{{")
	closes := strings.Count(body, "}}")
	if opens != closes {
		t.Errorf("Expected balanced braces, got %d opens and %d closes", opens, closes)
	}
	if opens != 2 {
		t.Errorf("Expected both nested templates to be kept, got %d", opens)
	}
}

func TestExtractInfobox_CaseInsensitive(t *testing.T) {
	body, ok := ExtractInfobox("{{INFOBOX River | name = Rhine | length = 1233 km}}")
	if !ok {
		t.Fatal("Expected uppercase infobox to be found")
	}
	if body != "River | name = Rhine | length = 1233 km" {
		t.Errorf("Unexpected body: %q", body)
	}
}

func TestExtractInfobox_Failures(t *testing.T) {
	tests := map[string]string{
		"no infobox": "Plain text with {{cite web|url=x}} only.",
		"unclosed":   "{{Infobox lake\n| name = Baikal\n| depth = {{convert|1642|m}}\n",
		"empty":      "",
	}
	for name, markup := range tests {
		t.Run(name, func(t *testing.T) {
			if body, ok := ExtractInfobox(markup); ok {
				t.Errorf("Expected no infobox, got %q", body)
			}
		})
	}
}

func TestExtractFieldMap(t *testing.T) {
	body, _ := ExtractInfobox(springfieldMarkup)
	fields := ExtractFieldMap(body)

	tests := map[string]string{
		"name":             "Springfield",
		"settlement_type":  "[[City]]",
		"population_total": "{{nowrap|114,394}}",
		"area_total_km2":   "{{convert|156.9|km2|sqmi}}",
		"leader_name":      "Misty Buscher",
	}
	for key, want := range tests {
		if got := fields[key]; got != want {
			t.Errorf("fields[%q] = %q, want %q", key, got, want)
		}
	}
}

func TestExtractFieldMap_FirstOccurrenceWins(t *testing.T) {
	fields := ExtractFieldMap("x\n| Name = First\n| name = Second\n  continued\n| other = 1")

	if fields["name"] != "First" {
		t.Errorf("Expected first occurrence to win, got %q", fields["name"])
	}
	if fields["other"] != "1" {
		t.Errorf("Expected other = 1, got %q", fields["other"])
	}
}

func TestExtractFieldMap_BackfillDoesNotOverwrite(t *testing.T) {
	fields := ExtractFieldMap("x\n| a = 1 | b = 2\n| c =\n")

	if fields["a"] != "1 | b = 2" {
		t.Errorf("Expected line scan value for a, got %q", fields["a"])
	}
	if fields["b"] != "2" {
		t.Errorf("Expected backfilled b = 2, got %q", fields["b"])
	}
	if v, ok := fields["c"]; !ok || v != "" {
		t.Errorf("Expected blank c to be kept from line scan, got %q (%v)", v, ok)
	}
}

func TestExtractParam(t *testing.T) {
	body := "settlement\n| Population = 5,000 <ref>x</ref>\n| area = 12"

	if got, ok := ExtractParam(body, "population"); !ok || got != "5,000 <ref>x</ref>" {
		t.Errorf("Unexpected population: %q (%v)", got, ok)
	}
	if _, ok := ExtractParam(body, "elevation"); ok {
		t.Error("Expected elevation to be missing")
	}
	if _, ok := ExtractParam(body, "are"); ok {
		t.Error("Expected prefix key not to match")
	}
}

func TestInfoboxType(t *testing.T) {
	tests := map[string]string{
		"settlement\n| name = x":   "settlement",
		"River | name = Rhine":     "river",
		" body of  water\n| a = b": "body of water",
		"":                         "",
	}
	for body, want := range tests {
		if got := InfoboxType(body); got != want {
			t.Errorf("InfoboxType(%q) = %q, want %q", body, got, want)
		}
	}
}
