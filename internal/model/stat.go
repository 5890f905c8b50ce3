package model

// StatKind distinguishes stats whose value parsed as a number from plain text
type StatKind string

const (
	StatText    StatKind = "text"
	StatNumeric StatKind = "numeric"
)

// Stat is one labelled statistic shown next to a feature
type Stat struct {
	ID     string   `json:"id"`
	Icon   string   `json:"icon"`
	Label  string   `json:"label"`
	Value  string   `json:"value"`            // Display string, always set
	Kind   StatKind `json:"kind"`             // numeric or text
	Number *float64 `json:"number,omitempty"` // Parsed value, numeric stats only
}

// TextStat builds a text stat
func TextStat(id, icon, label, value string) Stat {
	return Stat{ID: id, Icon: icon, Label: label, Value: value, Kind: StatText}
}

// NumericStat builds a numeric stat carrying both the parsed number and its display form
func NumericStat(id, icon, label, value string, n float64) Stat {
	return Stat{ID: id, Icon: icon, Label: label, Value: value, Kind: StatNumeric, Number: &n}
}

// IsNumeric reports whether the stat carries a parsed number
func (s Stat) IsNumeric() bool {
	return s.Kind == StatNumeric && s.Number != nil
}

// CloneStats deep-copies a stat slice
func CloneStats(stats []Stat) []Stat {
	out := make([]Stat, len(stats))
	for i, s := range stats {
		if s.Number != nil {
			n := *s.Number
			s.Number = &n
		}
		out[i] = s
	}
	return out
}
