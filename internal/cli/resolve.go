package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/geolore/internal/model"
	"github.com/ppiankov/geolore/internal/pipeline"
)

var (
	featureCategory string
	featureCountry  string
	featureState    string
	jsonOutput      bool
	resolveTimeout  time.Duration
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <name>",
	Short: "Resolve a feature to its article and show the entity card",
	Long: `Resolve tries the candidate article titles for a feature in priority
order, skips disambiguation pages and wrong-entity matches, and prints the
card the map sidebar would show.

Example:
  geolore resolve Springfield --category city --country "United States of America" --state Illinois
  geolore resolve Rhine --category river --country Germany --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

// candidatesCmd represents the candidates command
var candidatesCmd = &cobra.Command{
	Use:   "candidates <name>",
	Short: "List the article titles tried for a feature, in order",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		feature := featureFromFlags(args)
		for i, title := range pipeline.Candidates(feature.Name, feature.Category, feature) {
			fmt.Printf("%2d. %s\n", i+1, title)
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(candidatesCmd)

	for _, c := range []*cobra.Command{resolveCmd, candidatesCmd} {
		c.Flags().StringVarP(&featureCategory, "category", "c", "default", "feature category (country, city, river, lake, sea, strait)")
		c.Flags().StringVar(&featureCountry, "country", "", "country the feature lies in")
		c.Flags().StringVar(&featureState, "state", "", "state or province the feature lies in")
	}
	resolveCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the card as JSON")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", time.Minute, "overall timeout")
}

func featureFromFlags(args []string) model.Feature {
	f := model.Feature{
		Name:       strings.Join(args, " "),
		Category:   model.ParseCategory(featureCategory),
		Properties: map[string]any{},
	}
	if featureCountry != "" {
		f.Properties["country"] = featureCountry
	}
	if featureState != "" {
		f.Properties["state"] = featureState
	}
	return f
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	feature := featureFromFlags(args)
	card := pipeline.NewPipeline(cfg, slog.Default()).EntityCard(ctx, feature)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(card)
	}

	printCard(card)
	return nil
}

func printCard(card model.EntityCard) {
	fmt.Printf("%s (%s)\n", card.Title, card.Category.Label())
	if card.Wiki.Found {
		fmt.Printf("  article: %s\n", card.WikiTitle)
	} else {
		fmt.Printf("  article: not found\n")
	}
	if card.ImageURL != "" {
		fmt.Printf("  image:   %s\n", card.ImageURL)
	}
	fmt.Println()
	fmt.Println(card.Description)
	fmt.Println()
	for _, s := range card.Stats {
		fmt.Printf("  %s %-12s %s\n", s.Icon, s.Label, s.Value)
	}
}
