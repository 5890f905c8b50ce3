package stats

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	printer = message.NewPrinter(language.English)

	nonNumericRe   = regexp.MustCompile(`[^0-9.\-]`)
	groupedNumRe   = regexp.MustCompile(`([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)(?:\.[0-9]+)?`)
	distanceUnitRe = regexp.MustCompile(`(?i)\b(km|kilometres?|kilometers?|mi|miles?|m)\b`)
	areaUnitRe     = regexp.MustCompile(`(?i)(km\s*\^?2|km²|km2|sq\s*km|square\s*kilometers?|square\s*kilometres?|mi\s*\^?2|mi²|sq\s*mi|square\s*miles?)`)
)

// formatDecimal groups thousands and keeps at most two fraction digits
func formatDecimal(n float64) string {
	return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(2)))
}

// FormatNumber renders a plain quantity with thousands grouping. It reports
// false, returning val unchanged, when val holds no number.
func FormatNumber(val string) (string, float64, bool) {
	digits := nonNumericRe.ReplaceAllString(val, "")
	if digits == "" {
		return val, 0, false
	}
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return val, 0, false
	}
	return formatDecimal(n), n, true
}

// leadingQuantity parses the first number in s, allowing grouped thousands
func leadingQuantity(s string) (float64, bool) {
	m := groupedNumRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatArea renders an area as "N km²" or "N mi²". The unit found in val is
// kept; km² is assumed when val has none.
func FormatArea(val string) (string, float64, bool) {
	n, ok := leadingQuantity(val)
	if !ok {
		return val, 0, false
	}
	unit := "km²"
	if u := strings.ToLower(areaUnitRe.FindString(val)); u != "" && !strings.Contains(u, "km") && strings.Contains(u, "mi") {
		unit = "mi²"
	}
	return formatDecimal(n) + " " + unit, n, true
}

// FormatDistance renders a length as "N km", "N mi" or "N m". Spelled-out
// units are abbreviated; km is assumed when val has none.
func FormatDistance(val string) (string, float64, bool) {
	n, ok := leadingQuantity(val)
	if !ok {
		return val, 0, false
	}
	unit := "km"
	if m := distanceUnitRe.FindStringSubmatch(val); m != nil {
		switch u := strings.ToLower(m[1]); {
		case strings.HasPrefix(u, "kilomet"):
			unit = "km"
		case strings.HasPrefix(u, "mile"):
			unit = "mi"
		default:
			unit = u
		}
	}
	return formatDecimal(n) + " " + unit, n, true
}
