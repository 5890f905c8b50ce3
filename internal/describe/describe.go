// Package describe produces placeholder descriptions for features no
// article could be found for.
package describe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/geolore/internal/model"
)

// Description is the text and image shown for an unresolved feature
type Description struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// Describer writes a description of a named feature
type Describer interface {
	Name() string
	Describe(ctx context.Context, name string, category model.Category) (Description, error)
}

type template struct {
	image string
	text  string // %s is the feature name
}

var templates = map[model.Category]template{
	model.CategoryCountry: {
		image: "https://images.unsplash.com/photo-1552832230-c0197dd311b5?w=600",
		text:  "%s has a rich history spanning thousands of years. From ancient civilizations to modern nation-states, this region has been home to countless empires and cultural movements.",
	},
	model.CategoryCity: {
		image: "https://images.unsplash.com/photo-1477959858617-67f85cf4f1df?w=600",
		text:  "%s stands as one of the world's most historically significant cities. Its strategic location and cultural heritage have made it a center of commerce and learning.",
	},
	model.CategoryRiver: {
		image: "https://images.unsplash.com/photo-1501594907352-04cda38ebc29?w=600",
		text:  "The %s has been a lifeline for civilizations throughout history. Its waters have sustained agriculture and enabled trade routes.",
	},
	model.CategoryDefault: {
		image: "https://images.unsplash.com/photo-1451187580459-43490279c0fa?w=600",
		text:  "%s represents an important geographic feature with historical significance.",
	},
}

// TemplateDescriber fills fixed per-category templates. It never fails.
type TemplateDescriber struct{}

// Name returns the describer name
func (TemplateDescriber) Name() string { return "template" }

// Describe fills the template for category, falling back to the generic one
func (TemplateDescriber) Describe(_ context.Context, name string, category model.Category) (Description, error) {
	return templateFor(name, category), nil
}

func templateFor(name string, category model.Category) Description {
	t, ok := templates[category]
	if !ok {
		t = templates[model.CategoryDefault]
	}
	return Description{Text: fmt.Sprintf(t.text, name), ImageURL: t.image}
}

// New returns the describer selected by cfg. An empty provider selects the
// templates.
func New(cfg model.DescribeConfig, logger *slog.Logger) (Describer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "template":
		return TemplateDescriber{}, nil
	case "openai":
		return NewOpenAIDescriber(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown describe provider: %s (supported: template, openai)", cfg.Provider)
	}
}
