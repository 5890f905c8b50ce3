// Package events turns the encyclopedia's "on this day" feed into events
// placed on the map.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/geolore/internal/cache"
	"github.com/ppiankov/geolore/internal/model"
)

// maxTitleAttempts bounds the related pages tried for coordinates
const maxTitleAttempts = 3

// Feed supplies raw events for a calendar day
type Feed interface {
	FetchDayEvents(ctx context.Context, month, day int) ([]model.RawEvent, error)
}

// CoordinateLookup locates an article
type CoordinateLookup interface {
	LookupCoordinates(ctx context.Context, title string) (model.LngLat, error)
}

// Normalizer fetches, locates and declusters a day's events. Each day is
// computed at most once per cache lifetime.
type Normalizer struct {
	feed     Feed
	coords   CoordinateLookup
	cache    cache.Cache
	inflight singleflight.Group
	workers  int
	logger   *slog.Logger
}

// Option customizes a Normalizer
type Option func(*Normalizer)

// WithWorkers bounds concurrent coordinate lookups
func WithWorkers(n int) Option {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.workers = n
		}
	}
}

// WithLogger sets the normalizer logger
func WithLogger(l *slog.Logger) Option {
	return func(nz *Normalizer) { nz.logger = l }
}

// New creates a normalizer
func New(feed Feed, coords CoordinateLookup, c cache.Cache, opts ...Option) *Normalizer {
	nz := &Normalizer{
		feed:    feed,
		coords:  coords,
		cache:   c,
		workers: 16,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(nz)
	}
	return nz
}

// ValidateDate checks month/day against a leap year, so 02/29 is accepted
func ValidateDate(month, day int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month %d", month)
	}
	last := time.Date(2024, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 || day > last {
		return fmt.Errorf("invalid day %d for month %d", day, month)
	}
	return nil
}

// FetchEvents returns the located events for month/day in feed order. Only
// an invalid date is an error; a feed failure yields no events and is
// retried on the next call.
func (n *Normalizer) FetchEvents(ctx context.Context, month, day int) ([]model.HistoricalEvent, error) {
	if err := ValidateDate(month, day); err != nil {
		return nil, err
	}

	key := cache.Key("events", fmt.Sprintf("%02d-%02d", month, day))
	if evs, ok := cache.GetJSON[[]model.HistoricalEvent](n.cache, key); ok {
		n.logger.Debug("events cache hit", "month", month, "day", day, "events", len(evs))
		return evs, nil
	}

	v, _, _ := n.inflight.Do(key, func() (any, error) {
		if evs, ok := cache.GetJSON[[]model.HistoricalEvent](n.cache, key); ok {
			return evs, nil
		}

		raw, err := n.feed.FetchDayEvents(ctx, month, day)
		if err != nil {
			n.logger.Warn("events feed failed", "month", month, "day", day, "error", err)
			return []model.HistoricalEvent{}, nil
		}

		evs := n.normalize(ctx, raw)
		n.logger.Info("events located", "month", month, "day", day, "valid", len(evs), "raw", len(raw))

		if ctx.Err() == nil {
			if err := cache.SetJSON(n.cache, key, evs, cache.Forever); err != nil {
				n.logger.Warn("events cache store failed", "error", err)
			}
		}
		return evs, nil
	})

	return cloneEvents(v.([]model.HistoricalEvent)), nil
}

// normalize locates every raw event concurrently and drops those that fail
func (n *Normalizer) normalize(ctx context.Context, raw []model.RawEvent) []model.HistoricalEvent {
	located := make([]*model.HistoricalEvent, len(raw))

	var g errgroup.Group
	g.SetLimit(n.workers)
	for i := range raw {
		g.Go(func() error {
			located[i] = n.locate(ctx, raw[i])
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.HistoricalEvent, 0, len(raw))
	for _, e := range located {
		if e != nil {
			out = append(out, *e)
		}
	}
	Jitter(out)
	return out
}

// locate resolves one raw event, returning nil when it has no usable year
// or none of its first related pages has coordinates.
func (n *Normalizer) locate(ctx context.Context, raw model.RawEvent) *model.HistoricalEvent {
	year, ok := ParseYear(raw.Year)
	if !ok || len(raw.Pages) == 0 {
		return nil
	}

	for i := 0; i < len(raw.Pages) && i < maxTitleAttempts; i++ {
		title := raw.Pages[i].Title
		if title == "" {
			continue
		}
		c, err := n.coords.LookupCoordinates(ctx, title)
		if err != nil {
			n.logger.Debug("no coordinates", "title", title, "error", err)
			continue
		}
		if !ValidCoordinates(c) {
			n.logger.Debug("rejected coordinates", "title", title, "lng", c.Lng(), "lat", c.Lat())
			continue
		}

		return &model.HistoricalEvent{
			Text:         CleanText(raw.Text),
			Year:         year,
			OriginalYear: raw.Year,
			Pages:        raw.Pages,
			Coordinates:  c,
			Title:        raw.Pages[0].Title,
		}
	}
	return nil
}

func cloneEvents(evs []model.HistoricalEvent) []model.HistoricalEvent {
	out := make([]model.HistoricalEvent, len(evs))
	for i, e := range evs {
		pages := make([]model.EventPage, len(e.Pages))
		for j, p := range e.Pages {
			p.Thumbnail = cloneImage(p.Thumbnail)
			p.Original = cloneImage(p.Original)
			pages[j] = p
		}
		e.Pages = pages
		out[i] = e
	}
	return out
}

func cloneImage(img *model.ImageRef) *model.ImageRef {
	if img == nil {
		return nil
	}
	c := *img
	return &c
}
