package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Property keys probed, in priority order, for a feature's surrounding context
var (
	CountryPropertyKeys = []string{"ADMIN", "admin", "sovereignt", "SOVEREIGNT", "COUNTRY", "country"}
	StatePropertyKeys   = []string{"ADM1_NAME", "adm1_name", "admin_name", "STATE", "state", "PROVINCE", "province", "REGION", "region"}
	NamePropertyKeys    = []string{"displayName", "name_en", "NAME_EN", "name", "NAME", "ADMIN"}
)

// Feature is a clicked map feature: its display name, category and the raw
// properties carried by the source geometry.
type Feature struct {
	Name       string         `json:"name"`
	Category   Category       `json:"category"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Context is the administrative context used to qualify article titles
type Context struct {
	Country         string `json:"country,omitempty"`
	StateOrProvince string `json:"state_or_province,omitempty"`
}

// DisplayName returns Name, falling back to the usual name properties
func (f Feature) DisplayName() string {
	if n := strings.TrimSpace(f.Name); n != "" {
		return n
	}
	if v, ok := f.Property(NamePropertyKeys...); ok {
		return v
	}
	return "Unknown"
}

// Context extracts country and state/province from the feature properties
func (f Feature) Context() Context {
	var c Context
	if v, ok := f.Property(CountryPropertyKeys...); ok {
		c.Country = v
	}
	if v, ok := f.Property(StatePropertyKeys...); ok {
		c.StateOrProvince = v
	}
	return c
}

// Property returns the first non-blank property among keys, stringified
func (f Feature) Property(keys ...string) (string, bool) {
	key, ok := f.PropertyKey(keys...)
	if !ok {
		return "", false
	}
	return stringify(f.Properties[key]), true
}

// PropertyKey returns which of keys holds the first non-blank property
func (f Feature) PropertyKey(keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := f.Properties[k]
		if !ok || v == nil {
			continue
		}
		if stringify(v) != "" {
			return k, true
		}
	}
	return "", false
}

// stringify renders decoded JSON property values; floats never use exponents
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
