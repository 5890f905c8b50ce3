package resolve

import (
	"strings"
	"unicode"

	"github.com/ppiankov/geolore/internal/model"
)

// Policy decides whether an article describes an entity of a category.
// An article passes when it mentions none of the Excluded words and either
// mentions one of the Keywords or opens one of the Infoboxes.
type Policy struct {
	Keywords  []string // substrings of the markup or extract
	Infoboxes []string // infobox template names, e.g. "settlement"
	Excluded  []string // whole words naming a competing kind of entity
}

// Policies maps categories to their verification policy. Categories with
// no entry always verify.
type Policies map[model.Category]Policy

// DefaultPolicies returns the built-in verification table
func DefaultPolicies() Policies {
	return Policies{
		model.CategoryCity: {
			Keywords:  []string{"city", "town", "municipality", "settlement"},
			Infoboxes: []string{"settlement"},
			Excluded:  []string{"film", "ship", "vehicle", "album", "book"},
		},
		model.CategoryRiver: {
			Keywords:  []string{"river"},
			Infoboxes: []string{"river"},
		},
		model.CategoryLake: {
			Keywords:  []string{"lake"},
			Infoboxes: []string{"lake"},
		},
		model.CategorySea: {
			Keywords:  []string{"sea", "ocean"},
			Infoboxes: []string{"body of water"},
		},
		model.CategoryStrait: {
			Keywords:  []string{"strait"},
			Infoboxes: []string{"strait"},
		},
	}
}

// Verify reports whether markup and extract describe a category entity
func (p Policies) Verify(category model.Category, markup, extract string) bool {
	policy, ok := p[category]
	if !ok {
		return true
	}
	text := strings.ToLower(markup + " " + extract)

	if len(policy.Excluded) > 0 {
		words := wordSet(text)
		for _, w := range policy.Excluded {
			if words[strings.ToLower(w)] {
				return false
			}
		}
	}
	for _, k := range policy.Keywords {
		if strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	for _, box := range policy.Infoboxes {
		if strings.Contains(text, "{{infobox "+strings.ToLower(box)) {
			return true
		}
	}
	return false
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		set[w] = true
	}
	return set
}

// disambiguationMarkers flag a page that lists several entities
var disambiguationMarkers = []string{
	"{{disambiguation}}",
	"may refer to",
	"refer to:",
	"disambiguation page",
}

// IsDisambiguation reports whether markup is a disambiguation page
func IsDisambiguation(markup string) bool {
	lower := strings.ToLower(markup)
	for _, m := range disambiguationMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
