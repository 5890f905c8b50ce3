// Package resolve matches a map feature to an encyclopedia article by trying
// candidate titles in priority order and verifying each hit.
package resolve

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/geolore/internal/cache"
	"github.com/ppiankov/geolore/internal/model"
	"github.com/ppiankov/geolore/internal/stats"
	"github.com/ppiankov/geolore/internal/wikitext"
)

// ArticleLookup fetches article data by title
type ArticleLookup interface {
	QueryCanonicalSummary(ctx context.Context, title string) (model.ArticleSummary, error)
	FetchLeadMarkup(ctx context.Context, title string) (model.LeadMarkup, error)
}

// Resolver resolves features to articles. Results, including misses, are
// memoized per (category, feature name) for the life of its cache.
type Resolver struct {
	lookup   ArticleLookup
	cache    cache.Cache
	inflight singleflight.Group
	policies Policies
	registry []stats.StatSpec
	maxStats int
	logger   *slog.Logger
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithPolicies replaces the verification table
func WithPolicies(p Policies) Option {
	return func(r *Resolver) { r.policies = p }
}

// WithRegistry replaces the stat registry used on matched articles
func WithRegistry(registry []stats.StatSpec) Option {
	return func(r *Resolver) { r.registry = registry }
}

// WithMaxStats caps the stats kept per article
func WithMaxStats(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxStats = n
		}
	}
}

// WithLogger sets the resolver logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a resolver over lookup, memoizing into c
func New(lookup ArticleLookup, c cache.Cache, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:   lookup,
		cache:    c,
		policies: DefaultPolicies(),
		registry: stats.DefaultRegistry(),
		maxStats: 12,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first candidate article that exists, is not a
// disambiguation page and verifies for category. Lookup failures only
// disqualify the candidate at hand. The returned result is a copy the
// caller owns.
func (r *Resolver) Resolve(ctx context.Context, featureName string, candidates []string, category model.Category) model.WikiResult {
	if strings.TrimSpace(featureName) == "" || len(candidates) == 0 {
		return model.NotFound()
	}

	key := cache.Key("wiki", string(category), featureName)
	if res, ok := cache.GetJSON[model.WikiResult](r.cache, key); ok {
		r.logger.Debug("wiki cache hit", "feature", featureName, "category", category, "found", res.Found)
		return res
	}

	v, _, _ := r.inflight.Do(key, func() (any, error) {
		if res, ok := cache.GetJSON[model.WikiResult](r.cache, key); ok {
			return res, nil
		}
		res, settled := r.search(ctx, featureName, candidates, category)
		if settled {
			if err := cache.SetJSON(r.cache, key, res, cache.Forever); err != nil {
				r.logger.Warn("wiki cache store failed", "feature", featureName, "error", err)
			}
		}
		return res, nil
	})
	return v.(model.WikiResult).Clone()
}

// search walks candidates in order and stops at the first verified article.
// settled is false when ctx ended the walk early, so the miss is not final.
func (r *Resolver) search(ctx context.Context, featureName string, candidates []string, category model.Category) (result model.WikiResult, settled bool) {
	for i, cand := range candidates {
		if ctx.Err() != nil {
			r.logger.Debug("wiki search cancelled", "feature", featureName, "error", ctx.Err())
			return model.NotFound(), false
		}
		log := r.logger.With("feature", featureName, "candidate", cand, "attempt", i+1)

		summary, err := r.lookup.QueryCanonicalSummary(ctx, cand)
		if err != nil {
			log.Debug("candidate not found", "error", err)
			continue
		}

		lead, err := r.lookup.FetchLeadMarkup(ctx, summary.Title)
		if err != nil {
			log.Debug("lead markup unavailable", "title", summary.Title, "error", err)
			continue
		}

		if IsDisambiguation(lead.Markup) {
			log.Debug("disambiguation page, trying next", "title", summary.Title)
			continue
		}
		if !r.policies.Verify(category, lead.Markup, summary.Extract) {
			log.Debug("entity type mismatch, trying next", "title", summary.Title, "category", category)
			continue
		}

		title := lead.Title
		if title == "" {
			title = summary.Title
		}
		body, _ := wikitext.ExtractInfobox(lead.Markup)

		log.Info("article found", "title", title)
		return model.WikiResult{
			Found:     true,
			WikiTitle: title,
			Extract:   summary.Extract,
			Image:     summary.ImageURL,
			Stats:     stats.Resolve(body, r.registry, r.maxStats),
		}, true
	}

	if ctx.Err() != nil {
		return model.NotFound(), false
	}
	r.logger.Info("no suitable article", "feature", featureName, "candidates", len(candidates))
	return model.NotFound(), true
}
