package model

import "strings"

// Category is the geometric/administrative kind of a map feature
type Category string

const (
	CategoryCountry Category = "country"
	CategoryCity    Category = "city"
	CategoryRiver   Category = "river"
	CategoryLake    Category = "lake"
	CategorySea     Category = "sea"
	CategoryStrait  Category = "strait"
	CategoryDefault Category = "default"
)

// Categories lists every known category in layer hit-test order
var Categories = []Category{
	CategoryRiver, CategoryCity, CategoryStrait, CategoryLake, CategorySea, CategoryCountry,
}

// ParseCategory maps a category name or a map layer id (e.g. "city-hit")
// to a Category. Anything unrecognised is CategoryDefault.
func ParseCategory(s string) Category {
	id := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if strings.Contains(id, string(c)) {
			return c
		}
	}
	return CategoryDefault
}

// TypeWord returns the title-cased word used when building article titles
// ("River", "Strait", ...). CategoryDefault has none.
func (c Category) TypeWord() string {
	switch c {
	case CategoryCountry:
		return "Country"
	case CategoryCity:
		return "City"
	case CategoryRiver:
		return "River"
	case CategoryLake:
		return "Lake"
	case CategorySea:
		return "Sea"
	case CategoryStrait:
		return "Strait"
	default:
		return ""
	}
}

// Label is the human-readable type shown when nothing better is known
func (c Category) Label() string {
	if w := c.TypeWord(); w != "" {
		return w
	}
	return "Feature"
}

// IsKnown reports whether c is one of the declared categories
func (c Category) IsKnown() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return c == CategoryDefault
}
