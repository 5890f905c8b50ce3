// Live probe of title resolution against the public encyclopedia.
// Prints the candidate titles for a set of ambiguous features and the
// article each one settles on.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/geolore/internal/model"
	"github.com/ppiankov/geolore/internal/pipeline"
)

var probes = []model.Feature{
	{Name: "Springfield", Category: model.CategoryCity, Properties: map[string]any{"country": "United States of America", "state": "Illinois"}},
	{Name: "Paris", Category: model.CategoryCity, Properties: map[string]any{"country": "France"}},
	{Name: "Georgia", Category: model.CategoryCountry},
	{Name: "Amazon", Category: model.CategoryRiver, Properties: map[string]any{"country": "Brazil"}},
	{Name: "Geneva", Category: model.CategoryLake},
	{Name: "Gibraltar", Category: model.CategoryStrait},
	{Name: "Caribbean", Category: model.CategorySea},
}

func main() {
	fmt.Println("=== Title Resolution Probe ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	p := pipeline.NewPipeline(model.DefaultConfig(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, f := range probes {
		fmt.Printf("%s [%s]\n", f.Name, f.Category)
		fmt.Println(strings.Repeat("-", 60))

		for i, title := range pipeline.Candidates(f.Name, f.Category, f) {
			fmt.Printf("  %2d. %s\n", i+1, title)
		}

		res := p.ResolveEntity(ctx, f.Name, f.Category, f)
		if res.Found {
			fmt.Printf("  ✓ %s (%d stats)\n", res.WikiTitle, len(res.Stats))
			for _, s := range res.Stats {
				fmt.Printf("      %s %s: %s\n", s.Icon, s.Label, s.Value)
			}
		} else {
			fmt.Println("  ✗ no verified article")
		}
		fmt.Println()
	}

	fmt.Println("=== Probe Complete ===")
	fmt.Println("Requires network access to en.wikipedia.org.")
}
