package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/geolore/internal/pipeline"
)

var eventsTimeout time.Duration

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events <month> <day>",
	Short: "Show the located historical events for a calendar day",
	Long: `Events fetches "on this day" events, finds coordinates for each from
its related articles, and prints those that could be placed on the map.

Example:
  geolore events 7 20
  geolore events 3 15 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().BoolVar(&jsonOutput, "json", false, "print events as JSON")
	eventsCmd.Flags().DurationVar(&eventsTimeout, "timeout", 2*time.Minute, "overall timeout")
}

func runEvents(cmd *cobra.Command, args []string) error {
	month, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid month %q", args[0])
	}
	day, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid day %q", args[1])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventsTimeout)
	defer cancel()

	evs, err := pipeline.NewPipeline(cfg, slog.Default()).FetchEvents(ctx, month, day)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(evs)
	}

	for _, e := range evs {
		fmt.Printf("%6s  %9.4f %8.4f  %s\n", formatYear(e.Year), e.Coordinates.Lng(), e.Coordinates.Lat(), e.Text)
	}
	fmt.Fprintf(os.Stderr, "\n%d events located\n", len(evs))
	return nil
}

func formatYear(y int) string {
	if y < 0 {
		return fmt.Sprintf("%d BC", -y)
	}
	return strconv.Itoa(y)
}
