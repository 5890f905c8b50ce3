package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/geolore/internal/pipeline"
	"github.com/ppiankov/geolore/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Resolve many features from a file in parallel",
	Long: `Batch resolves every feature listed in a file, one per line:

  category|name|country|state

Country and state are optional. Blank lines and lines starting with '#'
are skipped. One JSON entity card is written per feature.

Example:
  geolore batch features.txt
  geolore batch features.txt --concurrency 4 --output-dir ./cards`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./geolore-cards", "output directory for entity cards")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	logger := slog.Default()
	logger.Info("batch starting", "file", file, "workers", concurrency, "output", outputDir)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, logger)
	processor := worker.NewBatchProcessor(p, concurrency)

	start := time.Now()
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	found, failed := 0, 0
	for _, result := range results {
		name := result.Feature.DisplayName()
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, result.Error)
			continue
		}

		path := filepath.Join(outputDir, sanitizeFilename(string(result.Card.Category)+"-"+name)+".json")
		if err := writeCard(path, result); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, err)
			continue
		}

		if result.Card.Wiki.Found {
			found++
			fmt.Fprintf(os.Stderr, "✓ %s → %s\n", name, result.Card.WikiTitle)
		} else {
			fmt.Fprintf(os.Stderr, "· %s (no article)\n", name)
		}
	}

	logger.Info("batch complete",
		"total", len(results),
		"found", found,
		"failed", failed,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

func writeCard(path string, result *worker.EntityResult) error {
	data, err := json.MarshalIndent(result.Card, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal card: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write card: %w", err)
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename makes s safe to use as a file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	if s == "" || s == "." || s == ".." {
		s = "feature"
	}
	return s
}
