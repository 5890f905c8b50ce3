package wikiapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ppiankov/geolore/internal/model"
)

type imageSource struct {
	Source string `json:"source"`
}

type coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type queryPage struct {
	Title       string          `json:"title"`
	Missing     json.RawMessage `json:"missing,omitempty"`
	Invalid     json.RawMessage `json:"invalid,omitempty"`
	Extract     string          `json:"extract"`
	Thumbnail   *imageSource    `json:"thumbnail,omitempty"`
	Original    *imageSource    `json:"original,omitempty"`
	Coordinates []coordinate    `json:"coordinates,omitempty"`
}

// exists reports whether the page is real; the API flags missing and
// invalid titles with a key whose value is irrelevant.
func (p queryPage) exists() bool {
	return p.Missing == nil && p.Invalid == nil
}

type queryResponse struct {
	Query struct {
		Pages map[string]queryPage `json:"pages"`
	} `json:"query"`
}

// firstPage returns the single page a one-title query yields
func (r queryResponse) firstPage() (queryPage, bool) {
	for _, p := range r.Query.Pages {
		return p, true
	}
	return queryPage{}, false
}

// QueryCanonicalSummary resolves title, following redirects and title
// normalization, and returns the page's canonical title, plain-text intro
// and lead image. The original image is preferred over the thumbnail.
func (c *Client) QueryCanonicalSummary(ctx context.Context, title string) (model.ArticleSummary, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("redirects", "1")
	params.Set("converttitles", "1")
	params.Set("prop", "extracts|pageimages")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("piprop", "thumbnail|original")
	params.Set("pithumbsize", strconv.Itoa(c.thumbSize))
	params.Set("titles", title)

	var resp queryResponse
	if err := c.getJSON(ctx, c.actionURL(params), &resp); err != nil {
		return model.ArticleSummary{}, fmt.Errorf("query %q: %w", title, err)
	}

	page, ok := resp.firstPage()
	if !ok || !page.exists() {
		return model.ArticleSummary{}, fmt.Errorf("query %q: %w", title, ErrNotFound)
	}

	summary := model.ArticleSummary{Title: page.Title, Extract: page.Extract}
	if summary.Title == "" {
		summary.Title = title
	}
	switch {
	case page.Original != nil && page.Original.Source != "":
		summary.ImageURL = page.Original.Source
	case page.Thumbnail != nil:
		summary.ImageURL = page.Thumbnail.Source
	}
	return summary, nil
}

type parseResponse struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
	Parse struct {
		Title    string          `json:"title"`
		Wikitext json.RawMessage `json:"wikitext"`
	} `json:"parse"`
}

// wikitext decodes both the formatversion=2 string and the legacy
// {"*": "..."} object.
func (r parseResponse) wikitext() (string, bool) {
	raw := r.Parse.Wikitext
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var legacy map[string]string
	if err := json.Unmarshal(raw, &legacy); err == nil {
		s, ok := legacy["*"]
		return s, ok
	}
	return "", false
}

// FetchLeadMarkup returns the raw markup of section 0 of title
func (c *Client) FetchLeadMarkup(ctx context.Context, title string) (model.LeadMarkup, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "wikitext")
	params.Set("section", "0")
	params.Set("redirects", "1")
	params.Set("formatversion", "2")

	var resp parseResponse
	if err := c.getJSON(ctx, c.actionURL(params), &resp); err != nil {
		return model.LeadMarkup{}, fmt.Errorf("parse %q: %w", title, err)
	}
	if resp.Error != nil {
		if resp.Error.Code == "missingtitle" || resp.Error.Code == "invalidtitle" {
			return model.LeadMarkup{}, fmt.Errorf("parse %q: %w", title, ErrNotFound)
		}
		return model.LeadMarkup{}, fmt.Errorf("parse %q: %s: %s", title, resp.Error.Code, resp.Error.Info)
	}

	markup, ok := resp.wikitext()
	if !ok {
		return model.LeadMarkup{}, fmt.Errorf("parse %q: %w", title, ErrNotFound)
	}

	lead := model.LeadMarkup{Title: resp.Parse.Title, Markup: markup}
	if lead.Title == "" {
		lead.Title = title
	}
	return lead, nil
}

// LookupCoordinates returns the primary coordinates recorded for title as
// [lng, lat]. Pages without coordinates yield ErrNotFound.
func (c *Client) LookupCoordinates(ctx context.Context, title string) (model.LngLat, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "coordinates")
	params.Set("redirects", "1")
	params.Set("titles", title)

	var resp queryResponse
	if err := c.getJSON(ctx, c.actionURL(params), &resp); err != nil {
		return model.LngLat{}, fmt.Errorf("coordinates %q: %w", title, err)
	}

	page, ok := resp.firstPage()
	if !ok || !page.exists() || len(page.Coordinates) == 0 {
		return model.LngLat{}, fmt.Errorf("coordinates %q: %w", title, ErrNotFound)
	}

	first := page.Coordinates[0]
	return model.LngLat{first.Lon, first.Lat}, nil
}
