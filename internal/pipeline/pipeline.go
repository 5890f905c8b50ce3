// Package pipeline wires article resolution, fallback stats, placeholder
// descriptions and historical events into the operations the map calls.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ppiankov/geolore/internal/cache"
	"github.com/ppiankov/geolore/internal/describe"
	"github.com/ppiankov/geolore/internal/events"
	"github.com/ppiankov/geolore/internal/model"
	"github.com/ppiankov/geolore/internal/resolve"
	"github.com/ppiankov/geolore/internal/stats"
	"github.com/ppiankov/geolore/internal/titles"
	"github.com/ppiankov/geolore/internal/wikiapi"
	"github.com/ppiankov/geolore/internal/worker"
)

const (
	noSummary       = "No summary available."
	discoveryLabel  = "Information"
	discoveryValue  = "Discovery in progress."
	defaultStatsMax = 3

	// maxCardFallbackStats caps the property stats on a card with no article
	maxCardFallbackStats = 3
)

// ArticleResolver resolves candidate titles to a verified article
type ArticleResolver interface {
	Resolve(ctx context.Context, featureName string, candidates []string, category model.Category) model.WikiResult
}

// EventSource returns located historical events for a calendar day
type EventSource interface {
	FetchEvents(ctx context.Context, month, day int) ([]model.HistoricalEvent, error)
}

// Pipeline is the facade over resolution, fallback stats and events
type Pipeline struct {
	resolver  ArticleResolver
	events    EventSource
	describer describe.Describer
	cardMax   int
	logger    *slog.Logger
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithDescriber sets a generator for descriptions of features without an
// extract. Fixed templates are not generators and are ignored here; they
// only ever supply the placeholder image.
func WithDescriber(d describe.Describer) Option {
	return func(p *Pipeline) {
		if _, isTemplate := d.(describe.TemplateDescriber); d != nil && !isTemplate {
			p.describer = d
		}
	}
}

// WithCardMaxStats bounds the fallback stats placed on a card, up to 3
func WithCardMaxStats(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.cardMax = min(n, maxCardFallbackStats)
		}
	}
}

// WithLogger sets the pipeline logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline over already built components
func New(resolver ArticleResolver, source EventSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver: resolver,
		events:   source,
		cardMax:  maxCardFallbackStats,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewPipeline builds the live pipeline from configuration: one encyclopedia
// client and one shared memo cache behind both the resolver and the event
// normalizer. A describer that fails to initialize is left out, so cards
// without an extract say "No summary available.".
func NewPipeline(cfg *model.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	limiter := worker.NewLimiter(cfg.Wiki.RequestsPerSecond, cfg.Wiki.Burst)
	client := wikiapi.New(cfg.Wiki, wikiapi.WithLimiter(limiter), wikiapi.WithLogger(logger))
	memo := cache.NewMemoryCache(0, 0)

	resolver := resolve.New(client, memo,
		resolve.WithMaxStats(cfg.Resolver.MaxStats),
		resolve.WithLogger(logger),
	)
	normalizer := events.New(client, client, memo,
		events.WithWorkers(cfg.Events.Workers),
		events.WithLogger(logger),
	)

	d, err := describe.New(cfg.Describe, logger)
	if err != nil {
		logger.Warn("describer unavailable", "provider", cfg.Describe.Provider, "error", err)
	}

	return New(resolver, normalizer,
		WithDescriber(d),
		WithCardMaxStats(cfg.Fallback.CardMaxStats),
		WithLogger(logger),
	)
}

// Candidates returns the titles ResolveEntity would try, in order
func Candidates(featureName string, category model.Category, feature model.Feature) []string {
	return titles.Build(entityName(featureName, feature), category, feature.Context())
}

// ResolveEntity resolves a feature to its encyclopedia article. The feature
// supplies the country/state context used to qualify titles.
func (p *Pipeline) ResolveEntity(ctx context.Context, featureName string, category model.Category, feature model.Feature) model.WikiResult {
	name := entityName(featureName, feature)
	candidates := titles.Build(name, category, feature.Context())
	p.logger.Debug("resolving entity", "feature", name, "category", category, "candidates", len(candidates))
	return p.resolver.Resolve(ctx, name, candidates, category)
}

// FallbackStats builds stats from the feature's own properties
func (p *Pipeline) FallbackStats(feature model.Feature, category model.Category, maxStats int) []model.Stat {
	if maxStats <= 0 {
		maxStats = defaultStatsMax
	}
	return stats.Fallback(feature, category, maxStats)
}

// FetchEvents returns the located events for month/day
func (p *Pipeline) FetchEvents(ctx context.Context, month, day int) ([]model.HistoricalEvent, error) {
	return p.events.FetchEvents(ctx, month, day)
}

// EntityCard assembles the sidebar payload for a clicked feature. Article
// data wins. Without an extract the description is generated when a
// describer is configured and "No summary available." otherwise; the image
// falls back to the category's stock picture.
func (p *Pipeline) EntityCard(ctx context.Context, feature model.Feature) model.EntityCard {
	category := model.ParseCategory(string(feature.Category))
	name := feature.DisplayName()
	wiki := p.ResolveEntity(ctx, name, category, feature)

	card := model.EntityCard{
		Title:     name,
		Category:  category,
		WikiTitle: name,
		Wiki:      wiki,
	}
	if wiki.Found {
		card.WikiTitle = wiki.WikiTitle
	}

	card.Description = wiki.Extract
	if card.Description == "" {
		card.Description = p.generate(ctx, name, category)
	}

	card.ImageURL = wiki.Image
	if card.ImageURL == "" {
		stock, _ := describe.TemplateDescriber{}.Describe(ctx, name, category)
		card.ImageURL = stock.ImageURL
	}

	card.Stats = p.cardStats(wiki, feature, category)
	return card
}

func (p *Pipeline) cardStats(wiki model.WikiResult, feature model.Feature, category model.Category) []model.Stat {
	if wiki.Found && len(wiki.Stats) > 0 {
		return model.CloneStats(wiki.Stats)
	}
	if fb := stats.Fallback(feature, category, p.cardMax); stats.Informative(fb) {
		return fb
	}
	return []model.Stat{model.TextStat("information", "📍", discoveryLabel, discoveryValue)}
}

func (p *Pipeline) generate(ctx context.Context, name string, category model.Category) string {
	if p.describer == nil {
		return noSummary
	}
	d, err := p.describer.Describe(ctx, name, category)
	if err != nil || d.Text == "" {
		p.logger.Warn("description failed", "describer", p.describer.Name(), "feature", name, "error", err)
		return noSummary
	}
	return d.Text
}

func entityName(featureName string, feature model.Feature) string {
	if n := strings.TrimSpace(featureName); n != "" {
		return n
	}
	return feature.DisplayName()
}
