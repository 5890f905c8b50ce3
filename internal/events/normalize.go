package events

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"

	"github.com/ppiankov/geolore/internal/model"
)

// JitterRadius is how far, in degrees, co-located events are pushed apart
const JitterRadius = 0.05

var (
	leadingIntRe = regexp.MustCompile(`^\s*([+-]?\d+)`)
	bracketRe    = regexp.MustCompile(`\[.*?\]`)
)

// ParseYear returns the leading integer of a feed year. Textual years
// mentioning "BC" are negated.
func ParseYear(y model.RawYear) (int, bool) {
	m := leadingIntRe.FindStringSubmatch(y.Text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if y.Textual && strings.Contains(y.Text, "BC") {
		n = -int(math.Abs(float64(n)))
	}
	return n, true
}

// CleanText strips bracketed footnote markers from event text
func CleanText(s string) string {
	return strings.TrimSpace(bracketRe.ReplaceAllString(s, ""))
}

// ValidCoordinates rejects (0,0), the feed's "unknown location", and
// anything outside the valid latitude/longitude ranges.
func ValidCoordinates(c model.LngLat) bool {
	if c.Lng() == 0 && c.Lat() == 0 {
		return false
	}
	return s2.LatLngFromDegrees(c.Lat(), c.Lng()).IsValid()
}

// Jitter spreads events sharing a position (rounded to 4 decimals) evenly
// on a circle of JitterRadius so they can be told apart. Lone events are
// untouched. Events are modified in place and keep their order.
func Jitter(events []model.HistoricalEvent) {
	groups := make(map[string][]int)
	for i, e := range events {
		key := strconv.FormatFloat(e.Coordinates.Lng(), 'f', 4, 64) + "," +
			strconv.FormatFloat(e.Coordinates.Lat(), 'f', 4, 64)
		groups[key] = append(groups[key], i)
	}

	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		for j, idx := range members {
			angle := float64(j) / float64(len(members)) * 2 * math.Pi
			events[idx].Coordinates[0] += math.Cos(angle) * JitterRadius
			events[idx].Coordinates[1] += math.Sin(angle) * JitterRadius
		}
	}
}
