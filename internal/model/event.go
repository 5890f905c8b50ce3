package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// LngLat is a [longitude, latitude] pair in degrees
type LngLat [2]float64

// Lng returns the longitude
func (c LngLat) Lng() float64 { return c[0] }

// Lat returns the latitude
func (c LngLat) Lat() float64 { return c[1] }

// RawYear holds a feed year exactly as received. The feed usually sends a
// number but some entries carry text like "44 BC".
type RawYear struct {
	Text    string
	Textual bool // true when the JSON value was a string
}

// UnmarshalJSON accepts either a JSON number or a JSON string
func (y *RawYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = RawYear{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = RawYear{Text: s, Textual: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*y = RawYear{Text: n.String()}
	return nil
}

// MarshalJSON writes the year back in its original JSON type
func (y RawYear) MarshalJSON() ([]byte, error) {
	if y.Textual {
		return json.Marshal(y.Text)
	}
	if y.Text == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(y.Text, 64); err != nil {
		return json.Marshal(y.Text)
	}
	return []byte(y.Text), nil
}

// ImageRef is a page image reference from the feed
type ImageRef struct {
	Source string `json:"source"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// EventPage is a page related to a feed event
type EventPage struct {
	Title     string    `json:"title"`
	Thumbnail *ImageRef `json:"thumbnail,omitempty"`
	Original  *ImageRef `json:"originalimage,omitempty"`
}

// RawEvent is one entry of an "on this day" feed
type RawEvent struct {
	Year  RawYear     `json:"year"`
	Text  string      `json:"text"`
	Pages []EventPage `json:"pages"`
}

// HistoricalEvent is a feed entry resolved to a map position
type HistoricalEvent struct {
	Text         string      `json:"text"`
	Year         int         `json:"year"` // Negative for BC
	OriginalYear RawYear     `json:"original_year"`
	Pages        []EventPage `json:"pages"`
	Coordinates  LngLat      `json:"coordinates"`
	Title        string      `json:"title"`
}
