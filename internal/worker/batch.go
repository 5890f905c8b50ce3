package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/geolore/internal/model"
)

// CardBuilder assembles the sidebar card for one feature
type CardBuilder interface {
	EntityCard(ctx context.Context, feature model.Feature) model.EntityCard
}

// EntityJob resolves a single feature
type EntityJob struct {
	Feature model.Feature
	Builder CardBuilder
}

// Execute executes the entity job
func (j *EntityJob) Execute(ctx context.Context) Result {
	card := j.Builder.EntityCard(ctx, j.Feature)
	return &EntityResult{
		Feature: j.Feature,
		Card:    card,
		Error:   ctx.Err(),
	}
}

// EntityResult is the outcome of an EntityJob
type EntityResult struct {
	Feature model.Feature
	Card    model.EntityCard
	Error   error
}

// GetError returns the error from the entity result
func (r *EntityResult) GetError() error {
	return r.Error
}

// BatchProcessor resolves many features concurrently
type BatchProcessor struct {
	builder     CardBuilder
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(builder CardBuilder, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		builder:     builder,
		concurrency: concurrency,
	}
}

// ProcessFeatures resolves features and returns results in input order.
// Features never reached because ctx was cancelled carry ctx's error.
func (b *BatchProcessor) ProcessFeatures(ctx context.Context, features []model.Feature) []*EntityResult {
	if len(features) == 0 {
		return []*EntityResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, f := range features {
		pool.Submit(&EntityJob{Feature: f, Builder: b.builder})
	}

	results := pool.Wait()

	out := make([]*EntityResult, len(features))
	for i := range features {
		if i < len(results) && results[i] != nil {
			out[i] = results[i].(*EntityResult)
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out[i] = &EntityResult{Feature: features[i], Error: err}
	}
	return out
}

// ProcessFile reads features from a file and resolves them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*EntityResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	features, err := ReadFeatures(file)
	if err != nil {
		return nil, fmt.Errorf("read features: %w", err)
	}

	return b.ProcessFeatures(ctx, features), nil
}

// ReadFeatures parses one feature per line in the form
// "category|name|country|state". Country and state are optional; blank
// lines, "#" comments and repeated lines are skipped.
func ReadFeatures(r io.Reader) ([]model.Feature, error) {
	var features []model.Feature
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		f, err := ParseFeatureLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		features = append(features, f)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return features, nil
}

// ParseFeatureLine parses "category|name|country|state" into a Feature
// whose properties carry the context the title builder reads.
func ParseFeatureLine(line string) (model.Feature, error) {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[1] == "" {
		return model.Feature{}, fmt.Errorf("expected category|name[|country[|state]], got %q", line)
	}
	if len(parts) > 4 {
		return model.Feature{}, fmt.Errorf("too many fields in %q", line)
	}

	f := model.Feature{
		Name:       parts[1],
		Category:   model.ParseCategory(parts[0]),
		Properties: map[string]any{},
	}
	if len(parts) > 2 && parts[2] != "" {
		f.Properties["country"] = parts[2]
	}
	if len(parts) > 3 && parts[3] != "" {
		f.Properties["state"] = parts[3]
	}
	return f, nil
}
